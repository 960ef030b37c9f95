// Package transform turns raw provider laps into canonical records.
//
// The stage is fail-closed: laps without a duration, a driver key or a
// compound are dropped and counted, never repaired. Pit flags come
// strictly from the provider's pit markers, not from lap time anomalies.
package transform

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/f1muse/f1-etl-go/log"
	"github.com/f1muse/f1-etl-go/pkg/model"
	"github.com/f1muse/f1-etl-go/pkg/processing/cleanair"
	"github.com/f1muse/f1-etl-go/pkg/processing/identity"
	"github.com/f1muse/f1-etl-go/pkg/processing/stint"
)

const lapTimePrecision = 3 // decimals stored for lap_time_seconds

type Transformer struct {
	resolver   *identity.Resolver
	classifier *cleanair.Classifier
	logger     *log.Logger
}

type Option func(t *Transformer)

func WithResolver(resolver *identity.Resolver) Option {
	return func(t *Transformer) {
		t.resolver = resolver
	}
}

func WithClassifier(classifier *cleanair.Classifier) Option {
	return func(t *Transformer) {
		t.classifier = classifier
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(t *Transformer) {
		t.logger = logger
	}
}

func NewTransformer(opts ...Option) *Transformer {
	t := &Transformer{
		resolver:   identity.NewResolver(),
		classifier: cleanair.NewClassifier(),
		logger:     log.Default().Named("transform"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform runs the per-race stages (filter, stint segmentation, clean
// air classification, record construction) and returns the canonical
// records plus the number of dropped laps.
func (t *Transformer) Transform(race *model.RaceData) ([]model.NormalizedLap, int) {
	// drop incomplete laps before segmentation so stint ids are only
	// assigned to usable laps. An empty compound must not reach the stint
	// stage, it would be indistinguishable from the "no previous compound"
	// state there.
	usable := lo.Filter(race.Laps, func(l model.RawLap, _ int) bool {
		return l.LapTime != nil && l.DriverKey != "" && l.Compound != ""
	})
	dropped := len(race.Laps) - len(usable)
	if dropped > 0 {
		t.logger.Warn("filtered laps with missing critical data",
			log.Int("dropped", dropped),
			log.Int("remaining", len(usable)))
	}

	segmented := stint.Segment(usable)
	classified := t.classifier.Classify(segmented)

	// resolve each provider key once per race
	driverIDs := t.resolveDrivers(race.Drivers)

	records := make([]model.NormalizedLap, 0, len(classified))
	for i := range classified {
		lap := &classified[i]
		driverID, ok := driverIDs[lap.DriverKey]
		if !ok {
			driverID = t.resolver.Resolve(model.DriverInfo{Key: lap.DriverKey})
			driverIDs[lap.DriverKey] = driverID
		}

		records = append(records, model.NormalizedLap{
			Season:         race.Season,
			Round:          race.Round,
			TrackID:        race.TrackID,
			DriverID:       driverID,
			SessionType:    model.SessionRace,
			LapNumber:      lap.LapNumber,
			StintID:        lap.StintID,
			StintLapIndex:  lap.StintLapIndex,
			LapTimeSeconds: decimal.NewFromFloat(*lap.LapTime).Round(lapTimePrecision),
			IsValidLap:     lap.IsAccurate,
			IsPitLap:       lap.PitIn || lap.PitOut,
			IsOutLap:       lap.PitOut,
			IsInLap:        lap.PitIn,
			CleanAirFlag:   lap.CleanAir,
			Compound:       lap.Compound,
			TyreAgeLaps:    lap.TyreAge,
		})
	}

	t.logger.Info("transformed laps",
		log.Int("records", len(records)),
		log.Int("dropped", dropped))
	return records, dropped
}

func (t *Transformer) resolveDrivers(drivers []model.DriverInfo) map[string]string {
	ids := make(map[string]string, len(drivers))
	for _, d := range drivers {
		ids[d.Key] = t.resolver.Resolve(d)
	}
	return ids
}
