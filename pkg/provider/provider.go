// Package provider talks to the upstream timing data service. Consumers
// program against Source; HTTPSource is the real implementation and
// CachingSource wraps any Source with a local file cache.
package provider

import (
	"context"

	"github.com/f1muse/f1-etl-go/pkg/model"
)

// Source delivers raw timing data for one race weekend. Implementations
// are assumed reliable but possibly incomplete; the processing stages
// are responsible for rejecting unusable data.
type Source interface {
	// FetchRace returns all laps of the race session of a round.
	FetchRace(ctx context.Context, season, round int) (*model.RaceData, error)
	// FetchQualifying returns classification and laps of the qualifying
	// session of a round.
	FetchQualifying(ctx context.Context, season, round int) (*model.QualifyingData, error)
	// Version identifies the upstream data source release. It goes into
	// the execution fingerprint.
	Version() string
}
