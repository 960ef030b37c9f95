package model

import "github.com/shopspring/decimal"

// session type stored with each normalized lap
const (
	SessionRace       = "R"
	SessionQualifying = "RACE_QUALIFYING"
)

// track status codes as reported by the provider. A lap may carry several
// codes concatenated (e.g. "45").
const (
	TrackStatusSafetyCar = '4'
	TrackStatusVSC       = '6'
	TrackStatusVSCEnding = '7'
)

// RawLap is one lap as reported by the timing data provider. It only lives
// for the duration of one race's processing.
type RawLap struct {
	DriverKey      string // provider native key (car number)
	LapNumber      int
	LapTime        *float64 // seconds, nil when the provider has no value
	PitIn          bool     // pit entry at the end of this lap
	PitOut         bool     // pit exit at the start of this lap
	Compound       string
	TyreAge        *int
	TrackStatus    string
	IsAccurate     bool
	Sector1        *float64 // seconds
	Sector2        *float64
	Sector3        *float64
	IsPersonalBest bool
	Deleted        bool     // lap time deleted for track limits
	GapToLeader    *float64 // seconds, only some seasons report this
}

// HasNeutralization reports whether the lap ran under safety car, virtual
// safety car or while the VSC was ending.
func (l *RawLap) HasNeutralization() bool {
	for _, c := range l.TrackStatus {
		if c == TrackStatusSafetyCar || c == TrackStatusVSC || c == TrackStatusVSCEnding {
			return true
		}
	}
	return false
}

// AnnotatedLap is a RawLap plus everything the processing stages derived.
// Each stage consumes a slice and returns a new one; raw input is never
// mutated.
type AnnotatedLap struct {
	RawLap
	StintID       int
	StintLapIndex int
	CleanAir      bool
}

// NormalizedLap is the canonical persisted record. StintID and
// StintLapIndex are always derived from lap order, never supplied by the
// provider.
type NormalizedLap struct {
	Season         int
	Round          int
	TrackID        string
	DriverID       string
	SessionType    string
	LapNumber      int
	StintID        int
	StintLapIndex  int
	LapTimeSeconds decimal.Decimal
	IsValidLap     bool
	IsPitLap       bool
	IsOutLap       bool
	IsInLap        bool
	CleanAirFlag   bool
	Compound       string
	TyreAgeLaps    *int
}
