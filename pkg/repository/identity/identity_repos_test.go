//nolint:errcheck // ok for tests
package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f1muse/f1-etl-go/testsupport/testdb"
)

func TestDriverMapRoundtrip(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	require.NoError(t, UpsertDriverMapping(ctx, pool, "VER", "max_verstappen"))
	require.NoError(t, UpsertDriverMapping(ctx, pool, "HAM", "lewis_hamilton"))

	mapping, err := LoadDriverMap(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"VER": "max_verstappen",
		"HAM": "lewis_hamilton",
	}, mapping)
}

func TestUpsertDriverMappingReplaces(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	require.NoError(t, UpsertDriverMapping(ctx, pool, "SAI", "carlos_sainz"))
	require.NoError(t, UpsertDriverMapping(ctx, pool, "SAI", "carlos_sainz_jr"))

	mapping, err := LoadDriverMap(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, "carlos_sainz_jr", mapping["SAI"])
	assert.Len(t, mapping, 1)
}

func TestLoadAliasOverrides(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
	insert into driver_alias_overrides (provider_id, canonical_id)
	values ('carlos_sainz', 'carlos_sainz_jr')`)
	require.NoError(t, err)

	aliases, err := LoadAliasOverrides(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"carlos_sainz": "carlos_sainz_jr"}, aliases)
}

func TestLoadTeamMapEmpty(t *testing.T) {
	pool := testdb.InitTestDb()

	teams, err := LoadTeamMap(context.Background(), pool)
	require.NoError(t, err)
	assert.Empty(t, teams)
}
