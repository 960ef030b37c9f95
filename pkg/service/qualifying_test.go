package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f1muse/f1-etl-go/pkg/model"
	"github.com/f1muse/f1-etl-go/pkg/processing/identity"
	"github.com/f1muse/f1-etl-go/pkg/processing/transform"
	"github.com/f1muse/f1-etl-go/pkg/repository/qualifying"
	"github.com/f1muse/f1-etl-go/testsupport/basedata"
	"github.com/f1muse/f1-etl-go/testsupport/testdb"
)

func sampleQualifyingLoader(t *testing.T) (*QualifyingLoader, context.Context) {
	t.Helper()
	pool := testdb.InitTestDb()
	loader := NewQualifyingLoader(pool,
		WithQualifyingTransformer(transform.NewQualifyingTransformer(
			transform.WithQualifyingResolver(identity.NewResolver(
				identity.WithMapping(map[string]string{
					"VER": "max_verstappen",
					"HAM": "lewis_hamilton",
				}))))))
	return loader, context.Background()
}

func TestLoadSession(t *testing.T) {
	loader, ctx := sampleQualifyingLoader(t)

	res := loader.LoadSession(ctx, basedata.SampleQualifyingData())
	assert.Equal(t, model.RaceSuccess, res.Status)
	// 2 classification rows plus 2 laps
	assert.Equal(t, 4, res.RowsInserted)

	count, err := qualifying.CountByRace(ctx, loader.pool, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLoadSessionIsIdempotent(t *testing.T) {
	loader, ctx := sampleQualifyingLoader(t)

	first := loader.LoadSession(ctx, basedata.SampleQualifyingData())
	require.Equal(t, model.RaceSuccess, first.Status)

	second := loader.LoadSession(ctx, basedata.SampleQualifyingData())
	assert.Equal(t, model.RaceSkipped, second.Status)
}

func TestLoadSessionFailsClosedWithoutResults(t *testing.T) {
	loader, ctx := sampleQualifyingLoader(t)

	data := basedata.SampleQualifyingData()
	data.Entries = nil

	res := loader.LoadSession(ctx, data)
	assert.Equal(t, model.RaceFailed, res.Status)
	assert.ErrorIs(t, res.Err, ErrNoUsableData)

	// nothing was written, not even the session row
	var sessions int
	err := loader.pool.QueryRow(ctx,
		"select count(*) from qualifying_sessions").Scan(&sessions)
	require.NoError(t, err)
	assert.Equal(t, 0, sessions)
}
