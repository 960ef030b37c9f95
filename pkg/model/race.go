package model

// DriverInfo describes one entry of the provider's driver list for a race.
type DriverInfo struct {
	Key          string // provider native key, matches RawLap.DriverKey
	Abbreviation string // three letter mnemonic
	FirstName    string
	LastName     string
	TeamName     string
}

// RaceData is everything the provider delivers for one race session.
type RaceData struct {
	Season        int
	Round         int
	TrackID       string
	SourceVersion string
	Laps          []RawLap
	Drivers       []DriverInfo
}

type RaceStatus string

const (
	RaceSuccess RaceStatus = "success"
	RaceSkipped RaceStatus = "skipped"
	RaceFailed  RaceStatus = "failed"
)

// RaceResult is the terminal outcome of processing one race.
type RaceResult struct {
	Status       RaceStatus
	RowsInserted int
	LapsDropped  int
	TrackID      string
	Err          error
}
