package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ohler55/ojg/oj"

	"github.com/f1muse/f1-etl-go/pkg/model"
)

// HTTPSource fetches timing payloads from the provider gateway. The
// gateway wraps the upstream timing service and serves one JSON document
// per session.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	version string
}

func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (s *HTTPSource) FetchRace(
	ctx context.Context, season, round int,
) (*model.RaceData, error) {
	var data model.RaceData
	if err := s.get(ctx,
		fmt.Sprintf("%s/seasons/%d/rounds/%d/race", s.baseURL, season, round),
		&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *HTTPSource) FetchQualifying(
	ctx context.Context, season, round int,
) (*model.QualifyingData, error) {
	var data model.QualifyingData
	if err := s.get(ctx,
		fmt.Sprintf("%s/seasons/%d/rounds/%d/qualifying", s.baseURL, season, round),
		&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Version asks the gateway once and remembers the answer for the rest of
// the run, keeping the execution fingerprint stable within a run.
func (s *HTTPSource) Version() string {
	if s.version != "" {
		return s.version
	}
	req, err := http.NewRequestWithContext(context.Background(),
		http.MethodGet, s.baseURL+"/version", http.NoBody)
	if err != nil {
		return "unknown"
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "unknown"
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		return "unknown"
	}
	s.version = strings.TrimSpace(string(raw))
	return s.version
}

func (s *HTTPSource) get(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned %s for %s", resp.Status, url)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return oj.Unmarshal(raw, target)
}
