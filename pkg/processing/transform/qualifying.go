package transform

import (
	"math"
	"strings"

	"github.com/f1muse/f1-etl-go/log"
	"github.com/f1muse/f1-etl-go/pkg/model"
	"github.com/f1muse/f1-etl-go/pkg/processing/identity"
)

// QualifyingTransformer builds qualifying result and lap records. Same
// fail-closed rules as the race transformer: rows without a time or a
// driver identity are dropped, never repaired.
type QualifyingTransformer struct {
	resolver *identity.Resolver
	teamMap  map[string]string
	logger   *log.Logger
}

type QualifyingOption func(t *QualifyingTransformer)

func WithQualifyingResolver(resolver *identity.Resolver) QualifyingOption {
	return func(t *QualifyingTransformer) {
		t.resolver = resolver
	}
}

func WithTeamMap(teamMap map[string]string) QualifyingOption {
	return func(t *QualifyingTransformer) {
		t.teamMap = teamMap
	}
}

func WithQualifyingLogger(logger *log.Logger) QualifyingOption {
	return func(t *QualifyingTransformer) {
		t.logger = logger
	}
}

func NewQualifyingTransformer(opts ...QualifyingOption) *QualifyingTransformer {
	t := &QualifyingTransformer{
		resolver: identity.NewResolver(),
		teamMap:  map[string]string{},
		logger:   log.Default().Named("transform").Named("quali"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TransformResults converts the provider's qualifying classification.
func (t *QualifyingTransformer) TransformResults(
	data *model.QualifyingData,
) []model.QualifyingResult {
	driverIDs := t.resolveByKey(data.Drivers)
	teamByKey := t.teamsByDriverKey(data.Drivers)

	results := make([]model.QualifyingResult, 0, len(data.Entries))
	for _, e := range data.Entries {
		driverID, ok := driverIDs[e.DriverKey]
		if !ok {
			t.logger.Warn("qualifying entry without driver identity, dropped",
				log.String("key", e.DriverKey))
			continue
		}
		best, bestSession := bestTime(e)
		gridPos := e.GridPosition
		if gridPos == nil {
			gridPos = e.Position
		}
		results = append(results, model.QualifyingResult{
			Season:               data.Season,
			Round:                data.Round,
			DriverID:             driverID,
			TeamID:               t.resolveTeam(teamByKey[e.DriverKey]),
			TrackID:              data.TrackID,
			Position:             e.Position,
			GridPosition:         gridPos,
			Q1TimeMs:             toMs(e.Q1),
			Q2TimeMs:             toMs(e.Q2),
			Q3TimeMs:             toMs(e.Q3),
			BestTimeMs:           best,
			BestSession:          bestSession,
			EliminatedIn:         eliminatedIn(e),
			IsDNS:                e.Q1 == nil,
			HasGridPenalty:       hasGridPenalty(e.Position, gridPos),
			GridPenaltyPositions: gridPenaltyPositions(e.Position, gridPos),
			SessionType:          model.SessionQualifying,
		})
	}
	return results
}

// TransformLaps converts the provider's per-lap qualifying timing. Laps
// without a duration are dropped and counted.
func (t *QualifyingTransformer) TransformLaps(
	data *model.QualifyingData,
) ([]model.QualifyingLap, int) {
	driverIDs := t.resolveByKey(data.Drivers)
	teamByKey := t.teamsByDriverKey(data.Drivers)

	records := make([]model.QualifyingLap, 0, len(data.Laps))
	dropped := 0
	for i := range data.Laps {
		l := &data.Laps[i]
		if l.LapTime == nil || l.DriverKey == "" {
			dropped++
			continue
		}
		driverID, ok := driverIDs[l.DriverKey]
		if !ok {
			dropped++
			continue
		}
		records = append(records, model.QualifyingLap{
			Season:   data.Season,
			Round:    data.Round,
			TrackID:  data.TrackID,
			DriverID: driverID,
			TeamID:   t.resolveTeam(teamByKey[l.DriverKey]),
			// the provider does not mark Q1/Q2/Q3 on individual laps
			SessionType:           model.SegmentQ1,
			LapNumber:             l.LapNumber,
			LapTimeMs:             int(math.Round(*l.LapTime * 1000)),
			Sector1Ms:             toMs(l.Sector1),
			Sector2Ms:             toMs(l.Sector2),
			Sector3Ms:             toMs(l.Sector3),
			IsValidLap:            l.IsAccurate && !l.Deleted,
			IsPersonalBest:        l.IsPersonalBest,
			DeletedForTrackLimits: l.Deleted,
			Compound:              l.Compound,
			TyreAgeLaps:           l.TyreAge,
		})
	}
	if dropped > 0 {
		t.logger.Warn("dropped qualifying laps with missing data",
			log.Int("dropped", dropped))
	}
	return records, dropped
}

func (t *QualifyingTransformer) resolveByKey(
	drivers []model.DriverInfo,
) map[string]string {
	ids := make(map[string]string, len(drivers))
	for _, d := range drivers {
		ids[d.Key] = t.resolver.Resolve(d)
	}
	return ids
}

func (t *QualifyingTransformer) teamsByDriverKey(
	drivers []model.DriverInfo,
) map[string]string {
	teams := make(map[string]string, len(drivers))
	for _, d := range drivers {
		teams[d.Key] = d.TeamName
	}
	return teams
}

func (t *QualifyingTransformer) resolveTeam(teamName string) string {
	if id, ok := t.teamMap[teamName]; ok {
		return id
	}
	return strings.ReplaceAll(strings.ToLower(teamName), " ", "-")
}

// eliminatedIn derives the stage a driver dropped out in. Empty means the
// driver reached Q3. Drivers without any time count as eliminated in Q1.
func eliminatedIn(e model.RawQualifyingEntry) string {
	switch {
	case e.Q3 != nil:
		return ""
	case e.Q2 != nil:
		return model.SegmentQ2
	default:
		return model.SegmentQ1
	}
}

// bestTime picks the fastest of the segment times and the segment it was
// set in.
func bestTime(e model.RawQualifyingEntry) (*int, string) {
	best := (*int)(nil)
	bestSession := ""
	candidates := []struct {
		time    *int
		session string
	}{
		{toMs(e.Q3), model.SegmentQ3},
		{toMs(e.Q2), model.SegmentQ2},
		{toMs(e.Q1), model.SegmentQ1},
	}
	for _, c := range candidates {
		if c.time == nil {
			continue
		}
		if best == nil || *c.time < *best {
			best = c.time
			bestSession = c.session
		}
	}
	return best, bestSession
}

func hasGridPenalty(position, gridPos *int) bool {
	return position != nil && gridPos != nil && *position != *gridPos
}

// gridPenaltyPositions counts positions lost to penalties; a gained
// position (others penalized harder) counts as zero.
func gridPenaltyPositions(position, gridPos *int) int {
	if position == nil || gridPos == nil {
		return 0
	}
	if lost := *gridPos - *position; lost > 0 {
		return lost
	}
	return 0
}

func toMs(seconds *float64) *int {
	if seconds == nil {
		return nil
	}
	ms := int(math.Round(*seconds * 1000))
	return &ms
}
