// Package etl orchestrates one pipeline invocation: schema precondition,
// identity map loading, the serial race loop and the audit record.
package etl

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/f1muse/f1-etl-go/log"
	"github.com/f1muse/f1-etl-go/pkg/model"
	"github.com/f1muse/f1-etl-go/pkg/processing/cleanair"
	"github.com/f1muse/f1-etl-go/pkg/processing/identity"
	"github.com/f1muse/f1-etl-go/pkg/processing/transform"
	"github.com/f1muse/f1-etl-go/pkg/provider"
	"github.com/f1muse/f1-etl-go/pkg/repository/etlrun"
	identityrepos "github.com/f1muse/f1-etl-go/pkg/repository/identity"
	"github.com/f1muse/f1-etl-go/pkg/repository/schema"
	"github.com/f1muse/f1-etl-go/pkg/service"
	"github.com/f1muse/f1-etl-go/pkg/utils"
)

type Runner struct {
	pool              *pgxpool.Pool
	source            provider.Source
	cleanAirThreshold float64
	logger            *log.Logger
}

type Option func(r *Runner)

func WithSource(source provider.Source) Option {
	return func(r *Runner) {
		r.source = source
	}
}

func WithCleanAirThreshold(seconds float64) Option {
	return func(r *Runner) {
		r.cleanAirThreshold = seconds
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func NewRunner(pool *pgxpool.Pool, opts ...Option) *Runner {
	r := &Runner{
		pool:              pool,
		cleanAirThreshold: 1.5,
		logger:            log.Default().Named("etl"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunLaps executes the lap normalization pipeline for a season or a
// single round (round 0 = all rounds). The returned metrics reflect
// committed state; the error is non-nil only for run level
// preconditions (unknown season, schema mismatch).
func (r *Runner) RunLaps(
	ctx context.Context, season, round int,
) (model.RunMetrics, error) {
	startedAt := time.Now()
	metrics := model.RunMetrics{}

	rounds, err := Rounds(season, round)
	if err != nil {
		return metrics, err
	}
	// schema mismatch aborts before any race is touched
	if err := schema.ValidateLapsSchema(ctx, r.pool); err != nil {
		return metrics, err
	}

	loader, err := r.buildLapLoader(ctx)
	if err != nil {
		return metrics, err
	}

	r.logger.Info("starting lap ingestion",
		log.Int("season", season),
		log.Int("rounds", len(rounds)))

	for _, rnd := range rounds {
		race, err := r.source.FetchRace(ctx, season, rnd)
		if err != nil {
			r.logger.Error("race fetch failed",
				log.Int("season", season),
				log.Int("round", rnd),
				log.ErrorField(err))
			metrics = metrics.Add(model.RaceResult{Status: model.RaceFailed, Err: err})
			continue
		}
		metrics = metrics.Add(loader.LoadRace(ctx, race))
	}

	r.writeAudit(ctx, model.SubjectLaps, season, round, metrics, startedAt)
	r.logSummary(season, metrics)
	return metrics, nil
}

// RunQualifying executes the qualifying pipeline analogously.
func (r *Runner) RunQualifying(
	ctx context.Context, season, round int,
) (model.RunMetrics, error) {
	startedAt := time.Now()
	metrics := model.RunMetrics{}

	rounds, err := Rounds(season, round)
	if err != nil {
		return metrics, err
	}

	loader, err := r.buildQualifyingLoader(ctx)
	if err != nil {
		return metrics, err
	}

	r.logger.Info("starting qualifying ingestion",
		log.Int("season", season),
		log.Int("rounds", len(rounds)))

	for _, rnd := range rounds {
		data, err := r.source.FetchQualifying(ctx, season, rnd)
		if err != nil {
			r.logger.Error("qualifying fetch failed",
				log.Int("season", season),
				log.Int("round", rnd),
				log.ErrorField(err))
			metrics = metrics.Add(model.RaceResult{Status: model.RaceFailed, Err: err})
			continue
		}
		metrics = metrics.Add(loader.LoadSession(ctx, data))
	}

	r.writeAudit(ctx, model.SubjectQualifying, season, round, metrics, startedAt)
	r.logSummary(season, metrics)
	return metrics, nil
}

// the identity maps are loaded once per run and stay read-only
func (r *Runner) newResolver(ctx context.Context) (*identity.Resolver, error) {
	mapping, err := identityrepos.LoadDriverMap(ctx, r.pool)
	if err != nil {
		return nil, err
	}
	aliases, err := identityrepos.LoadAliasOverrides(ctx, r.pool)
	if err != nil {
		return nil, err
	}
	if len(mapping) == 0 {
		r.logger.Warn("driver identity map is empty, ids will be synthesized")
	}
	r.logger.Info("loaded driver identity mappings", log.Int("count", len(mapping)))
	return identity.NewResolver(
		identity.WithMapping(mapping),
		identity.WithAliases(aliases),
		identity.WithLogger(r.logger.Named("identity")),
	), nil
}

func (r *Runner) buildLapLoader(ctx context.Context) (*service.LapLoader, error) {
	resolver, err := r.newResolver(ctx)
	if err != nil {
		return nil, err
	}
	transformer := transform.NewTransformer(
		transform.WithResolver(resolver),
		transform.WithClassifier(cleanair.NewClassifier(
			cleanair.WithThreshold(r.cleanAirThreshold),
			cleanair.WithLogger(r.logger.Named("cleanair")),
		)),
		transform.WithLogger(r.logger.Named("transform")),
	)
	return service.NewLapLoader(r.pool,
		service.WithTransformer(transformer),
		service.WithLoaderLogger(r.logger.Named("loader")),
	), nil
}

func (r *Runner) buildQualifyingLoader(
	ctx context.Context,
) (*service.QualifyingLoader, error) {
	resolver, err := r.newResolver(ctx)
	if err != nil {
		return nil, err
	}
	teamMap, err := identityrepos.LoadTeamMap(ctx, r.pool)
	if err != nil {
		return nil, err
	}
	transformer := transform.NewQualifyingTransformer(
		transform.WithQualifyingResolver(resolver),
		transform.WithTeamMap(teamMap),
		transform.WithQualifyingLogger(r.logger.Named("transform")),
	)
	return service.NewQualifyingLoader(r.pool,
		service.WithQualifyingTransformer(transformer),
	), nil
}

// writeAudit is best effort: committed race data is never rolled back
// because the audit row could not be written.
func (r *Runner) writeAudit(
	ctx context.Context,
	subject string,
	season, round int,
	metrics model.RunMetrics,
	startedAt time.Time,
) {
	run := model.EtlRun{
		Subject:           subject,
		Season:            season,
		Round:             round,
		Status:            metrics.Status(),
		RacesProcessed:    metrics.RacesProcessed,
		RacesSkipped:      metrics.RacesSkipped,
		RacesFailed:       metrics.RacesFailed,
		TotalRowsInserted: metrics.TotalRowsInserted,
		ExecutionHash: utils.ExecutionHash(
			subject, season, round, r.source.Version()),
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}
	if err := etlrun.Create(ctx, r.pool, &run); err != nil {
		r.logger.Error("could not write audit record", log.ErrorField(err))
		return
	}
	r.logger.Info("audit record written",
		log.Stringer("runId", run.RunID),
		log.String("hash", run.ExecutionHash))
}

func (r *Runner) logSummary(season int, metrics model.RunMetrics) {
	r.logger.Info("run complete",
		log.Int("season", season),
		log.String("status", metrics.Status()),
		log.Int("processed", metrics.RacesProcessed),
		log.Int("skipped", metrics.RacesSkipped),
		log.Int("failed", metrics.RacesFailed),
		log.Int("rowsInserted", metrics.TotalRowsInserted),
		log.Int("lapsDropped", metrics.TotalLapsDropped))
}
