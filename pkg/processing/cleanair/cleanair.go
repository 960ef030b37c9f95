// Package cleanair flags laps raced in clear track position.
//
// Policy is fail-closed toward dirty: a lap counts as clean air only when
// no exclusion applies and the gap to the car ahead is at least the
// configured threshold. The on-track order is taken from the reported
// gap-to-leader metric when enough laps carry it, otherwise it is
// reconstructed from cumulative race time.
package cleanair

import (
	"slices"
	"sort"

	"github.com/samber/lo"

	"github.com/f1muse/f1-etl-go/log"
	"github.com/f1muse/f1-etl-go/pkg/model"
)

// share of laps that must carry the reported gap metric before the
// direct-gap source is used
const directGapMinShare = 0.5

type Classifier struct {
	threshold float64 // seconds to the car ahead
	logger    *log.Logger
}

type Option func(c *Classifier)

// WithThreshold sets the clean air gap in seconds. This is domain policy
// (typical values 1.5 - 2.0), not an algorithmic constant.
func WithThreshold(seconds float64) Option {
	return func(c *Classifier) {
		c.threshold = seconds
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		threshold: 1.5,
		logger:    log.Default().Named("cleanair"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type stats struct {
	total        int
	clean        int
	dirtyGap     int
	dirtyPit     int
	dirtySC      int
	dirtyInvalid int
	dirtyNoData  int
}

// Classify returns a copy of the input with CleanAir set. The input slice
// is left untouched.
func (c *Classifier) Classify(laps []model.AnnotatedLap) []model.AnnotatedLap {
	out := slices.Clone(laps)

	src := c.selectSource(out)
	c.logger.Debug("gap source selected", log.String("mode", src.name()))

	byLapNumber := lo.GroupBy(
		lo.Map(out, func(_ model.AnnotatedLap, i int) *model.AnnotatedLap {
			return &out[i]
		}),
		func(l *model.AnnotatedLap) int { return l.LapNumber })

	var st stats
	for _, lapsAt := range byLapNumber {
		ranked := src.rank(lapsAt)
		gapAhead := make(map[*model.AnnotatedLap]float64, len(ranked))
		var leader *model.AnnotatedLap
		for i, entry := range ranked {
			if i == 0 {
				leader = entry.lap
				continue
			}
			gapAhead[entry.lap] = entry.cum - ranked[i-1].cum
		}

		for _, lap := range lapsAt {
			st.total++
			switch {
			case lap.PitIn || lap.PitOut:
				st.dirtyPit++
			case lap.HasNeutralization():
				st.dirtySC++
			case !lap.IsAccurate:
				st.dirtyInvalid++
			case lap == leader:
				lap.CleanAir = true
				st.clean++
			default:
				gap, ok := gapAhead[lap]
				if !ok {
					// not rankable for this lap number, stays dirty
					st.dirtyNoData++
				} else if gap >= c.threshold {
					lap.CleanAir = true
					st.clean++
				} else {
					st.dirtyGap++
				}
			}
		}
	}

	c.logger.Info("clean air detection done",
		log.String("mode", src.name()),
		log.Int("total", st.total),
		log.Int("clean", st.clean),
		log.Int("dirtyGap", st.dirtyGap),
		log.Int("dirtyPit", st.dirtyPit),
		log.Int("dirtySC", st.dirtySC),
		log.Int("dirtyInvalid", st.dirtyInvalid),
		log.Int("dirtyNoData", st.dirtyNoData))
	return out
}

func (c *Classifier) selectSource(laps []model.AnnotatedLap) gapSource {
	withGap := lo.CountBy(laps, func(l model.AnnotatedLap) bool {
		return l.GapToLeader != nil
	})
	if len(laps) > 0 && float64(withGap) >= float64(len(laps))*directGapMinShare {
		return directGapSource{}
	}
	return newReconstructedSource(laps)
}

// rankedLap is one entry of the on-track running order at a given lap
// number. cum values are comparable only within one ranking: the direct
// source uses the reported gap to the leader, the reconstructed source
// the cumulative elapsed race time.
type rankedLap struct {
	lap *model.AnnotatedLap
	cum float64
}

// gapSource produces the on-track running order for the laps of one lap
// number. Laps without usable gap data are omitted and default to dirty.
type gapSource interface {
	name() string
	rank(laps []*model.AnnotatedLap) []rankedLap
}

type directGapSource struct{}

func (directGapSource) name() string { return "direct-gap" }

func (directGapSource) rank(laps []*model.AnnotatedLap) []rankedLap {
	ranked := make([]rankedLap, 0, len(laps))
	for _, l := range laps {
		if l.GapToLeader != nil {
			ranked = append(ranked, rankedLap{lap: l, cum: *l.GapToLeader})
		}
	}
	sortRanked(ranked)
	return ranked
}

// reconstructedSource orders drivers by cumulative elapsed race time,
// which is the actual on-track order independent of any reported
// classification position.
type reconstructedSource struct {
	// cumulative race time per driver and lap number; entries exist only
	// where every prior lap of the driver is present with a duration
	cum map[string]map[int]float64
}

func newReconstructedSource(laps []model.AnnotatedLap) *reconstructedSource {
	src := &reconstructedSource{cum: make(map[string]map[int]float64)}

	byDriver := lo.GroupBy(laps, func(l model.AnnotatedLap) string {
		return l.DriverKey
	})
	for driver, driverLaps := range byDriver {
		sort.Slice(driverLaps, func(i, j int) bool {
			return driverLaps[i].LapNumber < driverLaps[j].LapNumber
		})
		perLap := make(map[int]float64, len(driverLaps))
		total := 0.0
		prevLap := 0
		for i, l := range driverLaps {
			if l.LapTime == nil {
				break // indeterminate from here on
			}
			if i > 0 && l.LapNumber != prevLap+1 {
				break // gap in the lap sequence, later sums unreliable
			}
			total += *l.LapTime
			perLap[l.LapNumber] = total
			prevLap = l.LapNumber
		}
		src.cum[driver] = perLap
	}
	return src
}

func (*reconstructedSource) name() string { return "reconstructed" }

func (s *reconstructedSource) rank(laps []*model.AnnotatedLap) []rankedLap {
	ranked := make([]rankedLap, 0, len(laps))
	for _, l := range laps {
		if cum, ok := s.cum[l.DriverKey][l.LapNumber]; ok {
			ranked = append(ranked, rankedLap{lap: l, cum: cum})
		}
	}
	sortRanked(ranked)
	return ranked
}

func sortRanked(ranked []rankedLap) {
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].cum < ranked[j].cum
	})
}
