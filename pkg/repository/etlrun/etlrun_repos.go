package etlrun

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/f1muse/f1-etl-go/pkg/model"
	"github.com/f1muse/f1-etl-go/pkg/repository"
)

// Create appends one audit row and fills in the generated run id. The
// etl_runs table is append-only; rows are never updated or deleted.
func Create(
	ctx context.Context, conn repository.Querier, run *model.EtlRun,
) error {
	row := conn.QueryRow(ctx, `
	insert into etl_runs (
	  subject, season, round, status,
	  races_processed, races_skipped, races_failed,
	  total_rows_inserted, execution_hash, started_at, finished_at
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	returning run_id
	`,
		run.Subject, run.Season, run.Round, run.Status,
		run.RacesProcessed, run.RacesSkipped, run.RacesFailed,
		run.TotalRowsInserted, run.ExecutionHash, run.StartedAt, run.FinishedAt)

	return row.Scan(&run.RunID)
}

// LoadBySeason returns the audit trail for a season, most recent first.
func LoadBySeason(
	ctx context.Context, conn repository.Querier, subject string, season int,
) ([]*model.EtlRun, error) {
	rows, err := conn.Query(ctx, `
	select run_id, subject, season, round, status,
	       races_processed, races_skipped, races_failed,
	       total_rows_inserted, execution_hash, started_at, finished_at
	from etl_runs
	where subject=$1 and season=$2
	order by started_at desc
	`, subject, season)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (*model.EtlRun, error) {
			return pgx.RowToAddrOfStructByPos[model.EtlRun](row)
		})
}
