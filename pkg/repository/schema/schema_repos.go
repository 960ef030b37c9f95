package schema

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/f1muse/f1-etl-go/pkg/repository"
)

// columns every run depends on. Checked once before any race is
// processed; a mismatch aborts the whole run (fail-closed).
var requiredLapColumns = []string{
	"season", "round", "track_id", "driver_id", "lap_number",
	"stint_id", "stint_lap_index", "lap_time_seconds",
	"is_valid_lap", "is_pit_lap", "is_out_lap", "is_in_lap",
	"clean_air_flag",
}

// ValidateLapsSchema verifies that the normalized_laps table exists and
// carries all required columns.
func ValidateLapsSchema(ctx context.Context, conn repository.Querier) error {
	return validateColumns(ctx, conn, "normalized_laps", requiredLapColumns)
}

func validateColumns(
	ctx context.Context, conn repository.Querier, table string, required []string,
) error {
	rows, err := conn.Query(ctx, `
	select column_name
	from information_schema.columns
	where table_schema = 'public' and table_name = $1
	`, table)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	defer rows.Close()

	actual := map[string]struct{}{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("schema validation: %w", err)
		}
		actual[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if len(actual) == 0 {
		return fmt.Errorf("table %q not found", table)
	}
	missing := lo.Filter(required, func(col string, _ int) bool {
		_, ok := actual[col]
		return !ok
	})
	if len(missing) > 0 {
		return fmt.Errorf("table %q is missing required columns %v", table, missing)
	}
	return nil
}
