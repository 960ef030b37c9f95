//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/f1muse/f1-etl-go/pkg/db/migrate"
	database "github.com/f1muse/f1-etl-go/pkg/db/postgres"
)

// create a pg connection pool for the f1etl testdatabase
func SetupTestDb() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
		WithName("f1-etl-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbURL := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres",
		host, containerPort.Port())

	if err = migrate.MigrateDb(dbURL); err != nil {
		log.Fatal(err)
	}

	return database.InitWithURL(dbURL)
}

// use the database from TESTDB_URL, migrating it to the current schema
func SetupExternalTestDb() *pgxpool.Pool {
	dbURL := os.Getenv("TESTDB_URL")
	if err := migrate.MigrateDb(dbURL); err != nil {
		log.Fatal(err)
	}
	return database.InitWithURL(dbURL)
}

func ClearLapsTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from normalized_laps")
}

func ClearEtlRunsTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from etl_runs")
}

func ClearIdentityTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from driver_alias_overrides")
	pool.Exec(context.Background(), "delete from driver_identity_map")
	pool.Exec(context.Background(), "delete from team_identity_map")
}

func ClearQualifyingTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from qualifying_laps")
	pool.Exec(context.Background(), "delete from qualifying_results")
	pool.Exec(context.Background(), "delete from qualifying_sessions")
}

func ClearAllTables(pool *pgxpool.Pool) {
	ClearQualifyingTables(pool)
	ClearLapsTable(pool)
	ClearEtlRunsTable(pool)
	ClearIdentityTables(pool)
}
