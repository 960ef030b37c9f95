package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f1muse/f1-etl-go/pkg/model"
)

type countingSource struct {
	calls int
	race  *model.RaceData
}

func (s *countingSource) FetchRace(
	_ context.Context, _, _ int,
) (*model.RaceData, error) {
	s.calls++
	if s.race == nil {
		return nil, errors.New("unavailable")
	}
	return s.race, nil
}

func (s *countingSource) FetchQualifying(
	_ context.Context, _, _ int,
) (*model.QualifyingData, error) {
	s.calls++
	return nil, errors.New("unavailable")
}

func (s *countingSource) Version() string { return "test" }

func sampleRace() *model.RaceData {
	lapTime := 95.321
	return &model.RaceData{
		Season:  2024,
		Round:   5,
		TrackID: "shanghai",
		Laps: []model.RawLap{{
			DriverKey: "1", LapNumber: 1, LapTime: &lapTime,
			Compound: "SOFT", IsAccurate: true,
		}},
	}
}

func TestCachingSourceServesSecondFetchFromDisk(t *testing.T) {
	dir := t.TempDir()
	inner := &countingSource{race: sampleRace()}
	src := NewCachingSource(inner, dir)
	ctx := context.Background()

	first, err := src.FetchRace(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)

	second, err := src.FetchRace(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "second fetch must not hit the source")

	assert.Equal(t, first.TrackID, second.TrackID)
	require.Len(t, second.Laps, 1)
	require.NotNil(t, second.Laps[0].LapTime)
	assert.InDelta(t, 95.321, *second.Laps[0].LapTime, 0.0001)
}

func TestCachingSourceDoesNotCacheErrors(t *testing.T) {
	dir := t.TempDir()
	inner := &countingSource{}
	src := NewCachingSource(inner, dir)

	_, err := src.FetchRace(context.Background(), 2024, 5)
	assert.Error(t, err)
	assert.Equal(t, 1, inner.calls)

	_, err = os.Stat(filepath.Join(dir, "2024", "05-race.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestCachingSourceIgnoresCorruptEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2024", "05-race.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	inner := &countingSource{race: sampleRace()}
	src := NewCachingSource(inner, dir)

	got, err := src.FetchRace(context.Background(), 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "shanghai", got.TrackID)
}

func TestCachingSourceDelegatesVersion(t *testing.T) {
	src := NewCachingSource(&countingSource{}, t.TempDir())
	assert.Equal(t, "test", src.Version())
}
