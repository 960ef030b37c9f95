package qualifying

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/f1muse/f1-etl-go/pkg/model"
	"github.com/f1muse/f1-etl-go/pkg/repository"
)

// CountByRace is the idempotency gate for qualifying data.
func CountByRace(
	ctx context.Context, conn repository.Querier, season, round int,
) (int, error) {
	row := conn.QueryRow(ctx, `
	select count(*) from qualifying_results where season=$1 and round=$2
	`, season, round)
	count := 0
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func UpsertSession(
	ctx context.Context, conn repository.Querier, s *model.QualifyingSession,
) error {
	_, err := conn.Exec(ctx, `
	insert into qualifying_sessions (season, round, track_id, session_date)
	values ($1,$2,$3,$4)
	on conflict (season, round) do update set
	  track_id = excluded.track_id,
	  session_date = excluded.session_date
	`, s.Season, s.Round, s.TrackID, s.SessionDate)
	return err
}

const upsertResultStmt = `
insert into qualifying_results (
  season, round, driver_id, team_id, track_id, position, grid_position,
  q1_time_ms, q2_time_ms, q3_time_ms, best_time_ms, best_session,
  eliminated_in, is_dnf, is_dns, has_grid_penalty, grid_penalty_positions,
  session_type
) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
on conflict (season, round, driver_id)
do update set
  team_id = excluded.team_id,
  track_id = excluded.track_id,
  position = excluded.position,
  grid_position = excluded.grid_position,
  q1_time_ms = excluded.q1_time_ms,
  q2_time_ms = excluded.q2_time_ms,
  q3_time_ms = excluded.q3_time_ms,
  best_time_ms = excluded.best_time_ms,
  best_session = excluded.best_session,
  eliminated_in = excluded.eliminated_in,
  is_dnf = excluded.is_dnf,
  is_dns = excluded.is_dns,
  has_grid_penalty = excluded.has_grid_penalty,
  grid_penalty_positions = excluded.grid_penalty_positions,
  session_type = excluded.session_type
`

func BulkUpsertResults(
	ctx context.Context, tx pgx.Tx, results []model.QualifyingResult,
) (int, error) {
	batch := &pgx.Batch{}
	for i := range results {
		r := &results[i]
		batch.Queue(upsertResultStmt,
			r.Season, r.Round, r.DriverID, r.TeamID, r.TrackID,
			r.Position, r.GridPosition,
			r.Q1TimeMs, r.Q2TimeMs, r.Q3TimeMs,
			r.BestTimeMs, nullable(r.BestSession),
			nullable(r.EliminatedIn), r.IsDNF, r.IsDNS,
			r.HasGridPenalty, r.GridPenaltyPositions,
			r.SessionType)
	}
	return execBatch(ctx, tx, batch)
}

const upsertLapStmt = `
insert into qualifying_laps (
  season, round, track_id, driver_id, team_id, session_type, lap_number,
  lap_time_ms, sector1_ms, sector2_ms, sector3_ms,
  is_valid_lap, is_personal_best, deleted_for_track_limits,
  compound, tyre_age_laps
) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
on conflict (season, round, driver_id, session_type, lap_number)
do update set
  lap_time_ms = excluded.lap_time_ms,
  sector1_ms = excluded.sector1_ms,
  sector2_ms = excluded.sector2_ms,
  sector3_ms = excluded.sector3_ms,
  is_valid_lap = excluded.is_valid_lap,
  is_personal_best = excluded.is_personal_best,
  deleted_for_track_limits = excluded.deleted_for_track_limits
`

func BulkUpsertLaps(
	ctx context.Context, tx pgx.Tx, lapRecords []model.QualifyingLap,
) (int, error) {
	batch := &pgx.Batch{}
	for i := range lapRecords {
		l := &lapRecords[i]
		batch.Queue(upsertLapStmt,
			l.Season, l.Round, l.TrackID, l.DriverID, nullable(l.TeamID),
			l.SessionType, l.LapNumber, l.LapTimeMs,
			l.Sector1Ms, l.Sector2Ms, l.Sector3Ms,
			l.IsValidLap, l.IsPersonalBest, l.DeletedForTrackLimits,
			nullable(l.Compound), l.TyreAgeLaps)
	}
	return execBatch(ctx, tx, batch)
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) (int, error) {
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

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
