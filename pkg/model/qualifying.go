package model

import "time"

// qualifying segments
const (
	SegmentQ1 = "Q1"
	SegmentQ2 = "Q2"
	SegmentQ3 = "Q3"
)

type QualifyingSession struct {
	Season      int
	Round       int
	TrackID     string
	SessionDate *time.Time
}

// RawQualifyingEntry is one row of the provider's qualifying classification.
type RawQualifyingEntry struct {
	DriverKey    string
	TeamKey      string
	Position     *int
	GridPosition *int     // may differ from Position due to penalties
	Q1           *float64 // seconds
	Q2           *float64
	Q3           *float64
}

type QualifyingResult struct {
	Season               int
	Round                int
	DriverID             string
	TeamID               string
	TrackID              string
	Position             *int
	GridPosition         *int
	Q1TimeMs             *int
	Q2TimeMs             *int
	Q3TimeMs             *int
	BestTimeMs           *int
	BestSession          string // segment the best time was set in
	EliminatedIn         string // empty when the driver reached Q3
	IsDNF                bool
	IsDNS                bool
	HasGridPenalty       bool
	GridPenaltyPositions int
	SessionType          string
}

type QualifyingLap struct {
	Season                int
	Round                 int
	TrackID               string
	DriverID              string
	TeamID                string
	SessionType           string // Q1/Q2/Q3
	LapNumber             int
	LapTimeMs             int
	Sector1Ms             *int
	Sector2Ms             *int
	Sector3Ms             *int
	IsValidLap            bool
	IsPersonalBest        bool
	DeletedForTrackLimits bool
	Compound              string
	TyreAgeLaps           *int
}

// QualifyingData is everything the provider delivers for one qualifying
// session.
type QualifyingData struct {
	Season        int
	Round         int
	TrackID       string
	SourceVersion string
	SessionDate   *time.Time
	Entries       []RawQualifyingEntry
	Laps          []RawLap
	Drivers       []DriverInfo
}
