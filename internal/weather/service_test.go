package weather

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubProvider struct {
	payload  Payload
	err      error
	deadline bool
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Fetch(ctx context.Context, lat, lon float64) (Payload, error) {
	_, p.deadline = ctx.Deadline()
	return p.payload, p.err
}

func TestServiceForecast(t *testing.T) {
	provider := &stubProvider{payload: &RawForecast{Hourly: newHourly(hourlyDay("2024-09-09", 6)), Daily: newDaily("2024-09-09")}}
	s := NewService(provider)
	s.now = func() time.Time { return created }

	report, err := s.Forecast(context.Background(), *testLocation())
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if report.RecordCount() != 2 {
		t.Errorf("RecordCount() = %d, want 2", report.RecordCount())
	}
	if !report.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", report.CreatedAt, created)
	}
	if !provider.deadline {
		t.Error("Fetch() context has no deadline")
	}
	if s.ProviderName() != "stub" {
		t.Errorf("ProviderName() = %s, want stub", s.ProviderName())
	}
}

func TestServiceForecastErrors(t *testing.T) {
	upstream := errors.New("connection reset")
	s := NewService(&stubProvider{err: upstream})
	if _, err := s.Forecast(context.Background(), *testLocation()); !errors.Is(err, upstream) {
		t.Errorf("Forecast() error = %v, want %v", err, upstream)
	}

	hourly := newHourly(hourlyDay("2024-09-10", 3))
	s = NewService(&stubProvider{payload: &RawForecast{Hourly: hourly, Daily: newDaily("2024-09-09")}})
	if _, err := s.Forecast(context.Background(), *testLocation()); !errors.Is(err, ErrDailyRecordNotFound) {
		t.Errorf("Forecast() error = %v, want ErrDailyRecordNotFound", err)
	}

	if _, err := NewService(nil).Forecast(context.Background(), *testLocation()); err == nil {
		t.Error("Forecast() without provider error = nil")
	}
}
