//nolint:funlen // ok for tests
package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f1muse/f1-etl-go/pkg/model"
	"github.com/f1muse/f1-etl-go/pkg/processing/identity"
	"github.com/f1muse/f1-etl-go/testsupport/basedata"
)

func qualiTransformer() *QualifyingTransformer {
	return NewQualifyingTransformer(
		WithQualifyingResolver(identity.NewResolver(
			identity.WithMapping(map[string]string{
				"VER": "max_verstappen",
				"HAM": "lewis_hamilton",
			}))),
		WithTeamMap(map[string]string{"Red Bull Racing": "red_bull"}),
	)
}

func TestTransformResults(t *testing.T) {
	data := basedata.SampleQualifyingData()
	results := qualiTransformer().TransformResults(data)
	require.Len(t, results, 2)

	ver := results[0]
	assert.Equal(t, "max_verstappen", ver.DriverID)
	assert.Equal(t, "red_bull", ver.TeamID)
	assert.Equal(t, "shanghai", ver.TrackID)
	assert.Equal(t, "", ver.EliminatedIn) // reached Q3
	require.NotNil(t, ver.Q3TimeMs)
	assert.Equal(t, 90100, *ver.Q3TimeMs)
	require.NotNil(t, ver.BestTimeMs)
	assert.Equal(t, 90100, *ver.BestTimeMs)
	assert.Equal(t, model.SegmentQ3, ver.BestSession)
	// without grid data the qualifying position carries over
	require.NotNil(t, ver.GridPosition)
	assert.Equal(t, 1, *ver.GridPosition)
	assert.False(t, ver.HasGridPenalty)
	assert.Equal(t, model.SessionQualifying, ver.SessionType)

	ham := results[1]
	assert.Equal(t, "lewis_hamilton", ham.DriverID)
	// team not in the map falls back to a slug of the name
	assert.Equal(t, "mercedes", ham.TeamID)
	assert.Equal(t, model.SegmentQ1, ham.EliminatedIn)
	assert.Nil(t, ham.Q2TimeMs)
	assert.Nil(t, ham.Q3TimeMs)
	require.NotNil(t, ham.BestTimeMs)
	assert.Equal(t, 91900, *ham.BestTimeMs)
	assert.Equal(t, model.SegmentQ1, ham.BestSession)
	// started 14th after qualifying 11th
	require.NotNil(t, ham.GridPosition)
	assert.Equal(t, 14, *ham.GridPosition)
	assert.True(t, ham.HasGridPenalty)
	assert.Equal(t, 3, ham.GridPenaltyPositions)
	assert.False(t, ham.IsDNS)
}

func TestTransformResultsDNS(t *testing.T) {
	data := basedata.SampleQualifyingData()
	data.Entries = []model.RawQualifyingEntry{
		{DriverKey: "1", TeamKey: "red_bull_racing", Position: intPtr(20)},
	}

	results := qualiTransformer().TransformResults(data)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsDNS)
	assert.Nil(t, results[0].BestTimeMs)
	assert.Equal(t, "", results[0].BestSession)
	assert.Equal(t, model.SegmentQ1, results[0].EliminatedIn)
}

func intPtr(v int) *int { return &v }

func TestEliminatedIn(t *testing.T) {
	q := 90.0
	tests := []struct {
		name  string
		entry model.RawQualifyingEntry
		want  string
	}{
		{name: "reached Q3", entry: model.RawQualifyingEntry{Q1: &q, Q2: &q, Q3: &q}, want: ""},
		{name: "out in Q2", entry: model.RawQualifyingEntry{Q1: &q, Q2: &q}, want: "Q2"},
		{name: "out in Q1", entry: model.RawQualifyingEntry{Q1: &q}, want: "Q1"},
		{name: "no time at all", entry: model.RawQualifyingEntry{}, want: "Q1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eliminatedIn(tt.entry))
		})
	}
}

func TestBestTime(t *testing.T) {
	q := func(v float64) *float64 { return &v }
	tests := []struct {
		name        string
		entry       model.RawQualifyingEntry
		wantMs      int
		wantSession string
	}{
		{
			name:        "later segments are usually faster",
			entry:       model.RawQualifyingEntry{Q1: q(91.2), Q2: q(90.8), Q3: q(90.1)},
			wantMs:      90100,
			wantSession: "Q3",
		},
		{
			name:        "rain in Q3 leaves Q2 as the best",
			entry:       model.RawQualifyingEntry{Q1: q(91.2), Q2: q(90.8), Q3: q(95.0)},
			wantMs:      90800,
			wantSession: "Q2",
		},
		{
			name:        "single segment",
			entry:       model.RawQualifyingEntry{Q1: q(91.9)},
			wantMs:      91900,
			wantSession: "Q1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, session := bestTime(tt.entry)
			require.NotNil(t, best)
			assert.Equal(t, tt.wantMs, *best)
			assert.Equal(t, tt.wantSession, session)
		})
	}
}

func TestTransformLaps(t *testing.T) {
	data := basedata.SampleQualifyingData()
	records, dropped := qualiTransformer().TransformLaps(data)

	assert.Equal(t, 0, dropped)
	require.Len(t, records, 2)

	ver := records[0]
	assert.Equal(t, "max_verstappen", ver.DriverID)
	assert.Equal(t, "red_bull", ver.TeamID)
	assert.Equal(t, 91200, ver.LapTimeMs)
	assert.Equal(t, model.SegmentQ1, ver.SessionType)
	require.NotNil(t, ver.Sector1Ms)
	assert.Equal(t, 28400, *ver.Sector1Ms)
	assert.True(t, ver.IsValidLap)
	assert.True(t, ver.IsPersonalBest)
	assert.False(t, ver.DeletedForTrackLimits)

	// a lap deleted for track limits stays stored but is not valid
	ham := records[1]
	assert.True(t, ham.DeletedForTrackLimits)
	assert.False(t, ham.IsValidLap)
}

func TestTransformLapsDropsIncomplete(t *testing.T) {
	data := basedata.SampleQualifyingData()
	data.Laps[0].LapTime = nil

	records, dropped := qualiTransformer().TransformLaps(data)
	assert.Equal(t, 1, dropped)
	assert.Len(t, records, 1)
}

func TestToMsRounds(t *testing.T) {
	v := 91.2345
	require.NotNil(t, toMs(&v))
	assert.Equal(t, 91235, *toMs(&v))
	assert.Nil(t, toMs(nil))
}
