// Package alerts implements the query and formatting layer on top of the
// Karma snapshot: every exposed operation fetches one snapshot, reshapes it
// and returns a display string. Operations are total; upstream failures come
// back as descriptive text, never as errors.
package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/qiniu/karma-mcp/internal/karma"
	"github.com/rs/zerolog/log"
)

// Fetcher is the upstream dependency of the service. *karma.Client implements
// it; tests substitute fakes.
type Fetcher interface {
	FetchAlerts(ctx context.Context) (*karma.Snapshot, error)
	Health(ctx context.Context) error
	FetchSilences(ctx context.Context) ([]karma.Silence, error)
	BaseURL() string
}

// Service exposes the Karma tool operations. The upstream client is threaded
// in explicitly so the layer stays testable without ambient globals.
type Service struct {
	karma Fetcher
}

func NewService(f Fetcher) *Service {
	return &Service{karma: f}
}

// CheckConnection probes the Karma health endpoint.
func (s *Service) CheckConnection(ctx context.Context) string {
	err := s.karma.Health(ctx)
	if err == nil {
		return fmt.Sprintf("✓ Karma is running at %s", s.karma.BaseURL())
	}
	var statusErr *karma.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("⚠ Karma responded with code %d", statusErr.Code)
	}
	return fmt.Sprintf("✗ Error connecting to Karma: %s", err)
}

// fetchSnapshot retrieves one snapshot and, on failure, returns the display
// string the caller should hand back instead of a result.
func (s *Service) fetchSnapshot(ctx context.Context) (*karma.Snapshot, string) {
	snapshot, err := s.karma.FetchAlerts(ctx)
	if err == nil {
		return snapshot, ""
	}
	var statusErr *karma.StatusError
	if errors.As(err, &statusErr) {
		return nil, fmt.Sprintf("Error fetching alerts: code %d", statusErr.Code)
	}
	log.Warn().Err(err).Msg("karma fetch failed")
	return nil, fmt.Sprintf("Error connecting to Karma: %s", err)
}
