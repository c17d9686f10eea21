package weather

import (
	"context"
	"fmt"
	"log"
	"time"
)

// FetchTimeout bounds a single forecast request.
const FetchTimeout = 10 * time.Second

// Service fetches a forecast for a location and reconciles it into a Report.
type Service struct {
	provider Provider
	timeout  time.Duration
	now      func() time.Time
}

// NewService creates a new Service.
func NewService(provider Provider) *Service {
	return &Service{
		provider: provider,
		timeout:  FetchTimeout,
		now:      time.Now,
	}
}

// ProviderName returns the name of the configured forecast provider.
func (s *Service) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// Forecast fetches the forecast for loc and normalizes it. Fetch failures are
// not retried.
func (s *Service) Forecast(ctx context.Context, loc Location) (*Report, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("no forecast provider configured")
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	log.Printf("DEBUG: fetching forecast from %s for %s", s.provider.Name(), loc.Key())
	payload, err := s.provider.Fetch(fetchCtx, loc.Latitude, loc.Longitude)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast from %s: %w", s.provider.Name(), err)
	}

	report, err := payload.Reconcile(&loc, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("normalize forecast from %s: %w", s.provider.Name(), err)
	}
	return report, nil
}
