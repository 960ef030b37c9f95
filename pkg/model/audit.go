package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

const (
	RunStatusSuccess        = "success"
	RunStatusPartialFailure = "partial_failure"
)

// subject kinds of an ETL run, part of the execution fingerprint
const (
	SubjectLaps       = "laps_normalized"
	SubjectQualifying = "qualifying"
)

// RunMetrics accumulates per-race outcomes of one pipeline invocation.
// It is threaded through the race loop as a value.
type RunMetrics struct {
	RacesProcessed    int
	RacesSkipped      int
	RacesFailed       int
	TotalRowsInserted int
	TotalLapsDropped  int
}

// Add folds one race result into the accumulator.
func (m RunMetrics) Add(res RaceResult) RunMetrics {
	switch res.Status {
	case RaceSuccess:
		m.RacesProcessed++
		m.TotalRowsInserted += res.RowsInserted
	case RaceSkipped:
		m.RacesSkipped++
	case RaceFailed:
		m.RacesFailed++
	}
	m.TotalLapsDropped += res.LapsDropped
	return m
}

func (m RunMetrics) Status() string {
	if m.RacesFailed == 0 {
		return RunStatusSuccess
	}
	return RunStatusPartialFailure
}

// EtlRun is one append-only audit record, written once at the end of a run.
type EtlRun struct {
	RunID             uuid.UUID
	Subject           string // laps | qualifying
	Season            int
	Round             int // 0 when the whole season was processed
	Status            string
	RacesProcessed    int
	RacesSkipped      int
	RacesFailed       int
	TotalRowsInserted int
	ExecutionHash     string
	StartedAt         time.Time
	FinishedAt        time.Time
}
