package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRounds(t *testing.T) {
	tests := []struct {
		name    string
		season  int
		round   int
		want    []int
		wantErr bool
	}{
		{name: "single round", season: 2024, round: 5, want: []int{5}},
		{name: "first round", season: 2024, round: 1, want: []int{1}},
		{name: "last round", season: 2024, round: 24, want: []int{24}},
		{name: "round out of range", season: 2024, round: 25, wantErr: true},
		{name: "negative round", season: 2024, round: -1, wantErr: true},
		{name: "unknown season", season: 2017, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rounds(tt.season, tt.round)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundsWholeSeason(t *testing.T) {
	got, err := Rounds(2020, 0)
	assert.NoError(t, err)
	assert.Len(t, got, 17)
	assert.Equal(t, 1, got[0])
	assert.Equal(t, 17, got[16])
}
