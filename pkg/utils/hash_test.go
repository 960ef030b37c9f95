package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutionHash(t *testing.T) {
	base := ExecutionHash("laps_normalized", 2024, 5, "3.3.0")

	assert.Len(t, base, 64)
	assert.Equal(t, base, ExecutionHash("laps_normalized", 2024, 5, "3.3.0"))

	assert.NotEqual(t, base, ExecutionHash("qualifying", 2024, 5, "3.3.0"))
	assert.NotEqual(t, base, ExecutionHash("laps_normalized", 2023, 5, "3.3.0"))
	assert.NotEqual(t, base, ExecutionHash("laps_normalized", 2024, 0, "3.3.0"))
	assert.NotEqual(t, base, ExecutionHash("laps_normalized", 2024, 5, "3.4.0"))
}
