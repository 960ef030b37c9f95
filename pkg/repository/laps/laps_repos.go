package laps

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/f1muse/f1-etl-go/pkg/model"
	"github.com/f1muse/f1-etl-go/pkg/repository"
)

// CountByRace returns the number of already stored laps for a race. A
// non-zero value is the idempotency gate: the race was loaded before.
func CountByRace(
	ctx context.Context, conn repository.Querier, season, round int,
) (int, error) {
	row := conn.QueryRow(ctx, `
	select count(*) from normalized_laps where season=$1 and round=$2
	`, season, round)
	count := 0
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// upsert conflict target is the uniqueness key of a lap. Only re-derived
// fields are refreshed on conflict; lap_time_seconds and compound are
// historical timing values and stay untouched once written.
const upsertStmt = `
insert into normalized_laps (
  season, round, track_id, driver_id, session_type, lap_number,
  stint_id, stint_lap_index, lap_time_seconds,
  is_valid_lap, is_pit_lap, is_out_lap, is_in_lap,
  clean_air_flag, compound, tyre_age_laps
) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
on conflict (season, round, track_id, driver_id, lap_number)
do update set
  session_type = excluded.session_type,
  stint_id = excluded.stint_id,
  stint_lap_index = excluded.stint_lap_index,
  is_pit_lap = excluded.is_pit_lap,
  is_out_lap = excluded.is_out_lap,
  is_in_lap = excluded.is_in_lap
`

// BulkUpsert writes all laps of one race. The caller provides the
// transaction; all rows go through a single batch round trip.
func BulkUpsert(
	ctx context.Context, tx pgx.Tx, records []model.NormalizedLap,
) (int, error) {
	batch := &pgx.Batch{}
	for i := range records {
		r := &records[i]
		batch.Queue(upsertStmt,
			r.Season, r.Round, r.TrackID, r.DriverID, r.SessionType,
			r.LapNumber, r.StintID, r.StintLapIndex, r.LapTimeSeconds,
			r.IsValidLap, r.IsPitLap, r.IsOutLap, r.IsInLap,
			r.CleanAirFlag, r.Compound, r.TyreAgeLaps)
	}
	result := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := result.Exec(); err != nil {
			//nolint:errcheck // close result before surfacing the exec error
			result.Close()
			return 0, err
		}
	}
	if err := result.Close(); err != nil {
		return 0, err
	}
	return batch.Len(), nil
}

// DeleteByRace removes all laps of a race, used by repair tooling and
// tests. Regular runs never delete.
func DeleteByRace(
	ctx context.Context, conn repository.Querier, season, round int,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"delete from normalized_laps where season=$1 and round=$2", season, round)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// LoadByRace reads all stored laps of a race ordered by driver and lap
// number.
func LoadByRace(
	ctx context.Context, conn repository.Querier, season, round int,
) ([]*model.NormalizedLap, error) {
	rows, err := conn.Query(ctx, `
	select season, round, track_id, driver_id, session_type, lap_number,
	       stint_id, stint_lap_index, lap_time_seconds,
	       is_valid_lap, is_pit_lap, is_out_lap, is_in_lap,
	       clean_air_flag, compound, tyre_age_laps
	from normalized_laps
	where season=$1 and round=$2
	order by driver_id, lap_number
	`, season, round)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (*model.NormalizedLap, error) {
			return pgx.RowToAddrOfStructByPos[model.NormalizedLap](row)
		})
}
