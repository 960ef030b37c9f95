package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ohler55/ojg/oj"

	"github.com/f1muse/f1-etl-go/log"
	"github.com/f1muse/f1-etl-go/pkg/model"
)

// CachingSource wraps a Source with a file cache. The cache directory is
// injected and owned by the caller, scoped to one run; there is no
// process wide cache state. Cache problems are never fatal, the wrapped
// source is simply asked again.
type CachingSource struct {
	next   Source
	dir    string
	logger *log.Logger
}

func NewCachingSource(next Source, dir string) *CachingSource {
	return &CachingSource{
		next:   next,
		dir:    dir,
		logger: log.Default().Named("provider").Named("cache"),
	}
}

func (c *CachingSource) Version() string { return c.next.Version() }

func (c *CachingSource) FetchRace(
	ctx context.Context, season, round int,
) (*model.RaceData, error) {
	path := c.path(season, round, "race")
	var cached model.RaceData
	if c.read(path, &cached) {
		return &cached, nil
	}
	data, err := c.next.FetchRace(ctx, season, round)
	if err != nil {
		return nil, err
	}
	c.write(path, data)
	return data, nil
}

func (c *CachingSource) FetchQualifying(
	ctx context.Context, season, round int,
) (*model.QualifyingData, error) {
	path := c.path(season, round, "qualifying")
	var cached model.QualifyingData
	if c.read(path, &cached) {
		return &cached, nil
	}
	data, err := c.next.FetchQualifying(ctx, season, round)
	if err != nil {
		return nil, err
	}
	c.write(path, data)
	return data, nil
}

func (c *CachingSource) path(season, round int, session string) string {
	return filepath.Join(c.dir,
		fmt.Sprintf("%d", season),
		fmt.Sprintf("%02d-%s.json", round, session))
}

func (c *CachingSource) read(path string, target any) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := oj.Unmarshal(raw, target); err != nil {
		c.logger.Warn("discarding unreadable cache entry",
			log.String("path", path),
			log.ErrorField(err))
		return false
	}
	c.logger.Debug("cache hit", log.String("path", path))
	return true
}

func (c *CachingSource) write(path string, data any) {
	raw, err := oj.Marshal(data)
	if err != nil {
		c.logger.Warn("could not encode cache entry", log.ErrorField(err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		c.logger.Warn("could not create cache dir", log.ErrorField(err))
		return
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		c.logger.Warn("could not write cache entry",
			log.String("path", path),
			log.ErrorField(err))
	}
}
