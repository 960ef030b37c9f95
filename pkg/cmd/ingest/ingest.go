package ingest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/f1muse/f1-etl-go/log"
	"github.com/f1muse/f1-etl-go/pkg/config"
	"github.com/f1muse/f1-etl-go/pkg/db/postgres"
	"github.com/f1muse/f1-etl-go/pkg/etl"
	"github.com/f1muse/f1-etl-go/pkg/model"
	"github.com/f1muse/f1-etl-go/pkg/provider"
	"github.com/f1muse/f1-etl-go/pkg/utils"
)

var (
	season int
	round  int
)

func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "one-shot ETL jobs loading provider timing data",
	}

	cmd.PersistentFlags().IntVar(&season, "season", 0,
		"season to process (required)")
	cmd.PersistentFlags().IntVar(&round, "round", 0,
		"single round to process (default: all rounds of the season)")
	cmd.PersistentFlags().StringVar(&config.ProviderURL, "provider-url",
		"http://localhost:8720",
		"base URL of the timing data provider gateway")
	cmd.PersistentFlags().StringVar(&config.ProviderCacheDir, "cache-dir",
		"cache/provider",
		"directory for cached provider payloads")
	//nolint:errcheck // cobra only errors on unknown flag names
	cmd.MarkPersistentFlagRequired("season")

	cmd.AddCommand(newLapsCmd())
	cmd.AddCommand(newQualifyingCmd())
	return cmd
}

func newLapsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "laps",
		Short: "normalize and load race laps",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, lapsJob)
		},
	}
	cmd.Flags().Float64Var(&config.CleanAirThreshold, "cleanAirThreshold", 1.5,
		"gap in seconds to the car ahead to count a lap as clean air")
	return cmd
}

func newQualifyingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qualifying",
		Short: "load qualifying classification and laps",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, qualifyingJob)
		},
	}
}

type job int

const (
	lapsJob job = iota
	qualifyingJob
)

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

func runIngest(cmd *cobra.Command, which job) error {
	if config.LogConfig != "" {
		if rules, err := os.ReadFile(config.LogConfig); err == nil {
			log.SetFilterRules(string(rules))
		}
	}
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	log.ResetDefault(logger)

	// wait for database
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err = utils.WaitForTCP(postgresAddr, timeout); err != nil {
		log.Fatal("database not ready", log.ErrorField(err))
	}

	pool := postgres.InitWithURL(
		config.DB,
		postgres.WithTracer(logger, parseLogLevel(config.SQLLogLevel, log.DebugLevel)))
	defer pool.Close()

	source := provider.NewCachingSource(
		provider.NewHTTPSource(config.ProviderURL),
		config.ProviderCacheDir)

	runner := etl.NewRunner(pool,
		etl.WithSource(source),
		etl.WithCleanAirThreshold(config.CleanAirThreshold),
		etl.WithLogger(logger.Named("etl")))

	ctx := log.AddToContext(cmd.Context(), logger)
	metrics, runErr := run(ctx, runner, which)
	if runErr != nil {
		return runErr
	}
	// a run with skipped races only is still a clean exit; failures are not
	if metrics.RacesFailed > 0 {
		return fmt.Errorf("%d race(s) failed", metrics.RacesFailed)
	}
	return nil
}

func run(
	ctx context.Context, runner *etl.Runner, which job,
) (model.RunMetrics, error) {
	if which == qualifyingJob {
		return runner.RunQualifying(ctx, season, round)
	}
	return runner.RunLaps(ctx, season, round)
}
