package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/f1muse/f1-etl-go/log"
	"github.com/f1muse/f1-etl-go/pkg/model"
	"github.com/f1muse/f1-etl-go/pkg/processing/transform"
	"github.com/f1muse/f1-etl-go/pkg/repository/laps"
)

// ErrNoUsableData marks a race where no lap survived the fail-closed
// filter.
var ErrNoUsableData = errors.New("no usable laps after transformation")

// LapLoader owns the per-race write path: idempotency gate, transform,
// one transaction per race. Laps of a race commit together or not at
// all.
type LapLoader struct {
	pool        *pgxpool.Pool
	transformer *transform.Transformer
	logger      *log.Logger
}

type LapLoaderOption func(s *LapLoader)

func WithTransformer(transformer *transform.Transformer) LapLoaderOption {
	return func(s *LapLoader) {
		s.transformer = transformer
	}
}

func WithLoaderLogger(logger *log.Logger) LapLoaderOption {
	return func(s *LapLoader) {
		s.logger = logger
	}
}

func NewLapLoader(pool *pgxpool.Pool, opts ...LapLoaderOption) *LapLoader {
	s := &LapLoader{
		pool:        pool,
		transformer: transform.NewTransformer(),
		logger:      log.Default().Named("loader"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadRace processes one race to a terminal state. Errors never
// propagate past the race boundary; they are folded into the returned
// result.
func (s *LapLoader) LoadRace(ctx context.Context, race *model.RaceData) model.RaceResult {
	logger := s.logger.Named("race")
	logger.Info("processing race",
		log.Int("season", race.Season),
		log.Int("round", race.Round),
		log.String("track", race.TrackID))

	existing, err := laps.CountByRace(ctx, s.pool, race.Season, race.Round)
	if err != nil {
		return s.failed(race, 0, err)
	}
	if existing > 0 {
		logger.Info("race already loaded, skipping",
			log.Int("season", race.Season),
			log.Int("round", race.Round),
			log.Int("existingRows", existing))
		return model.RaceResult{Status: model.RaceSkipped, TrackID: race.TrackID}
	}

	records, dropped := s.transformer.Transform(race)
	if len(records) == 0 {
		return s.failed(race, dropped, ErrNoUsableData)
	}

	inserted := 0
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		inserted, err = laps.BulkUpsert(ctx, tx, records)
		return err
	})
	if err != nil {
		// BeginFunc already rolled back, nothing of this race is visible
		return s.failed(race, dropped, err)
	}

	logger.Info("race loaded",
		log.Int("season", race.Season),
		log.Int("round", race.Round),
		log.Int("rows", inserted))
	return model.RaceResult{
		Status:       model.RaceSuccess,
		RowsInserted: inserted,
		LapsDropped:  dropped,
		TrackID:      race.TrackID,
	}
}

func (s *LapLoader) failed(
	race *model.RaceData, dropped int, err error,
) model.RaceResult {
	s.logger.Error("race failed",
		log.Int("season", race.Season),
		log.Int("round", race.Round),
		log.ErrorField(err))
	return model.RaceResult{
		Status:      model.RaceFailed,
		LapsDropped: dropped,
		TrackID:     race.TrackID,
		Err:         err,
	}
}
