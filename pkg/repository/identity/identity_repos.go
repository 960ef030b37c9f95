package identity

import (
	"context"

	"github.com/f1muse/f1-etl-go/pkg/repository"
)

// LoadDriverMap returns the provider mnemonic -> canonical driver id
// mapping. Read-only input to a run.
func LoadDriverMap(
	ctx context.Context, conn repository.Querier,
) (map[string]string, error) {
	return loadMap(ctx, conn,
		"select external_key, canonical_id from driver_identity_map")
}

// LoadTeamMap returns the provider team name -> canonical team id mapping.
func LoadTeamMap(
	ctx context.Context, conn repository.Querier,
) (map[string]string, error) {
	return loadMap(ctx, conn,
		"select external_key, canonical_id from team_identity_map")
}

// LoadAliasOverrides returns overrides for synthesized driver ids whose
// canonical form differs.
func LoadAliasOverrides(
	ctx context.Context, conn repository.Querier,
) (map[string]string, error) {
	return loadMap(ctx, conn,
		"select provider_id, canonical_id from driver_alias_overrides")
}

func loadMap(
	ctx context.Context, conn repository.Querier, stmt string,
) (map[string]string, error) {
	rows, err := conn.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := make(map[string]string)
	for rows.Next() {
		var key, id string
		if err := rows.Scan(&key, &id); err != nil {
			return nil, err
		}
		ret[key] = id
	}
	return ret, rows.Err()
}

// UpsertDriverMapping adds or replaces one identity mapping entry.
func UpsertDriverMapping(
	ctx context.Context, conn repository.Querier, externalKey, canonicalID string,
) error {
	_, err := conn.Exec(ctx, `
	insert into driver_identity_map (external_key, canonical_id)
	values ($1,$2)
	on conflict (external_key) do update set canonical_id = excluded.canonical_id
	`, externalKey, canonicalID)
	return err
}
