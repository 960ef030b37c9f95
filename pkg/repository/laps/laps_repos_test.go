//nolint:errcheck,funlen // ok for tests
package laps

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f1muse/f1-etl-go/pkg/model"
	"github.com/f1muse/f1-etl-go/testsupport/basedata"
	tcpg "github.com/f1muse/f1-etl-go/testsupport/tcpostgres"
	"github.com/f1muse/f1-etl-go/testsupport/testdb"
)

func upsertLaps(t *testing.T, pool *pgxpool.Pool, records []model.NormalizedLap) int {
	t.Helper()
	inserted := 0
	err := pgx.BeginFunc(context.Background(), pool, func(tx pgx.Tx) error {
		var err error
		inserted, err = BulkUpsert(context.Background(), tx, records)
		return err
	})
	require.NoError(t, err)
	return inserted
}

func TestBulkUpsertAndLoad(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	sample := basedata.SampleNormalizedLap()
	second := sample
	second.LapNumber = 2
	second.StintLapIndex = 2
	second.CleanAirFlag = false

	n := upsertLaps(t, pool, []model.NormalizedLap{sample, second})
	assert.Equal(t, 2, n)

	count, err := CountByRace(ctx, pool, sample.Season, sample.Round)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stored, err := LoadByRace(ctx, pool, sample.Season, sample.Round)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, sample.DriverID, stored[0].DriverID)
	assert.Equal(t, 1, stored[0].LapNumber)
	assert.True(t, sample.LapTimeSeconds.Equal(stored[0].LapTimeSeconds))
	require.NotNil(t, stored[0].TyreAgeLaps)
	assert.Equal(t, 1, *stored[0].TyreAgeLaps)
}

func TestBulkUpsertConflictKeepsTimingValues(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	sample := basedata.SampleNormalizedLap()
	upsertLaps(t, pool, []model.NormalizedLap{sample})

	// a re-run with different derived values and (bogus) different timing
	rerun := sample
	rerun.StintID = 7
	rerun.StintLapIndex = 3
	rerun.IsPitLap = true
	rerun.IsInLap = true
	rerun.LapTimeSeconds = decimal.NewFromFloat(1.0)
	rerun.Compound = "HARD"
	upsertLaps(t, pool, []model.NormalizedLap{rerun})

	count, err := CountByRace(ctx, pool, sample.Season, sample.Round)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := LoadByRace(ctx, pool, sample.Season, sample.Round)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	// derived fields follow the re-run
	assert.Equal(t, 7, stored[0].StintID)
	assert.Equal(t, 3, stored[0].StintLapIndex)
	assert.True(t, stored[0].IsPitLap)
	assert.True(t, stored[0].IsInLap)
	// timing values keep their originally written state
	assert.True(t, sample.LapTimeSeconds.Equal(stored[0].LapTimeSeconds))
	assert.Equal(t, "SOFT", stored[0].Compound)
}

func TestBulkUpsertRollsBackOnFailure(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	sample := basedata.SampleNormalizedLap()
	bad := sample
	bad.LapNumber = 2
	// exceeds the numeric(8,3) column
	bad.LapTimeSeconds = decimal.NewFromFloat(123456.789)

	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		_, err := BulkUpsert(ctx, tx, []model.NormalizedLap{sample, bad})
		return err
	})
	require.Error(t, err)

	count, err := CountByRace(ctx, pool, sample.Season, sample.Round)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDeleteByRace(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	sample := basedata.SampleNormalizedLap()
	other := sample
	other.Round = 6
	upsertLaps(t, pool, []model.NormalizedLap{sample, other})

	deleted, err := DeleteByRace(ctx, pool, sample.Season, sample.Round)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	count, err := CountByRace(ctx, pool, other.Season, other.Round)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	tcpg.ClearLapsTable(pool)
}
