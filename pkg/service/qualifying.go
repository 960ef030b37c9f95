package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/f1muse/f1-etl-go/log"
	"github.com/f1muse/f1-etl-go/pkg/model"
	"github.com/f1muse/f1-etl-go/pkg/processing/transform"
	"github.com/f1muse/f1-etl-go/pkg/repository/qualifying"
)

// QualifyingLoader writes one qualifying session per transaction:
// session row, classification and laps commit together or not at all.
type QualifyingLoader struct {
	pool        *pgxpool.Pool
	transformer *transform.QualifyingTransformer
	logger      *log.Logger
}

type QualifyingLoaderOption func(s *QualifyingLoader)

func WithQualifyingTransformer(
	transformer *transform.QualifyingTransformer,
) QualifyingLoaderOption {
	return func(s *QualifyingLoader) {
		s.transformer = transformer
	}
}

func NewQualifyingLoader(
	pool *pgxpool.Pool, opts ...QualifyingLoaderOption,
) *QualifyingLoader {
	s := &QualifyingLoader{
		pool:        pool,
		transformer: transform.NewQualifyingTransformer(),
		logger:      log.Default().Named("loader").Named("quali"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *QualifyingLoader) LoadSession(
	ctx context.Context, data *model.QualifyingData,
) model.RaceResult {
	s.logger.Info("processing qualifying",
		log.Int("season", data.Season),
		log.Int("round", data.Round),
		log.String("track", data.TrackID))

	existing, err := qualifying.CountByRace(ctx, s.pool, data.Season, data.Round)
	if err != nil {
		return s.failed(data, err)
	}
	if existing > 0 {
		s.logger.Info("qualifying already loaded, skipping",
			log.Int("season", data.Season),
			log.Int("round", data.Round))
		return model.RaceResult{Status: model.RaceSkipped, TrackID: data.TrackID}
	}

	results := s.transformer.TransformResults(data)
	lapRecords, dropped := s.transformer.TransformLaps(data)
	if len(results) == 0 {
		return s.failed(data, ErrNoUsableData)
	}

	rows := 0
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		session := model.QualifyingSession{
			Season:      data.Season,
			Round:       data.Round,
			TrackID:     data.TrackID,
			SessionDate: data.SessionDate,
		}
		if err := qualifying.UpsertSession(ctx, tx, &session); err != nil {
			return err
		}
		n, err := qualifying.BulkUpsertResults(ctx, tx, results)
		if err != nil {
			return err
		}
		rows += n
		n, err = qualifying.BulkUpsertLaps(ctx, tx, lapRecords)
		if err != nil {
			return err
		}
		rows += n
		return nil
	})
	if err != nil {
		return s.failed(data, err)
	}

	s.logger.Info("qualifying loaded",
		log.Int("season", data.Season),
		log.Int("round", data.Round),
		log.Int("rows", rows))
	return model.RaceResult{
		Status:       model.RaceSuccess,
		RowsInserted: rows,
		LapsDropped:  dropped,
		TrackID:      data.TrackID,
	}
}

func (s *QualifyingLoader) failed(
	data *model.QualifyingData, err error,
) model.RaceResult {
	s.logger.Error("qualifying failed",
		log.Int("season", data.Season),
		log.Int("round", data.Round),
		log.ErrorField(err))
	return model.RaceResult{
		Status:  model.RaceFailed,
		TrackID: data.TrackID,
		Err:     err,
	}
}
