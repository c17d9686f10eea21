package geolocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/i474232898/weather-checker/internal/weather"
)

type fakeSource struct {
	name  string
	loc   weather.Location
	err   error
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Locate(ctx context.Context) (weather.Location, error) {
	f.calls++
	return f.loc, f.err
}

func TestResolverFirstSuccessWins(t *testing.T) {
	failing := &fakeSource{name: "native", err: ErrAccessDenied}
	geojs := &fakeSource{name: "geojs", loc: weather.Location{City: "Köln", Latitude: 50.9375, Longitude: 6.9603}}
	ipapi := &fakeSource{name: "ipapi", loc: weather.Location{City: "Bonn", Latitude: 50.7374, Longitude: 7.0982}}

	res := NewResolver(DefaultLocation, failing, geojs, ipapi).Resolve(context.Background())

	if res.Source != "geojs" || res.Location.City != "Köln" {
		t.Errorf("Resolve() = %+v, want geojs/Köln", res)
	}
	if ipapi.calls != 0 {
		t.Errorf("ipapi called %d times, want 0", ipapi.calls)
	}
	if len(res.Failed) != 1 || !errors.Is(res.Failed[0].Err, ErrAccessDenied) {
		t.Errorf("Failed = %+v, want one access denied attempt", res.Failed)
	}
}

func TestResolverFallsBackToDefault(t *testing.T) {
	sources := []Source{
		&fakeSource{name: "native", err: ErrServiceUnavailable},
		&fakeSource{name: "geojs", err: errors.New("connection refused")},
		&fakeSource{name: "ipapi", loc: weather.Location{Latitude: 123, Longitude: 6}},
	}

	res := NewResolver(DefaultLocation, sources...).Resolve(context.Background())

	if res.Source != DefaultSource {
		t.Errorf("Source = %s, want %s", res.Source, DefaultSource)
	}
	if res.Location.Latitude != 51.2277 || res.Location.Longitude != 6.7735 {
		t.Errorf("Location = %+v, want the default coordinates", res.Location)
	}
	if len(res.Failed) != 3 {
		t.Fatalf("Failed has %d attempts, want 3", len(res.Failed))
	}
	if !errors.Is(res.Failed[2].Err, ErrInvalidCoordinates) {
		t.Errorf("third attempt error = %v, want ErrInvalidCoordinates", res.Failed[2].Err)
	}
}

func TestResolverWithoutSources(t *testing.T) {
	res := NewResolver(DefaultLocation).Resolve(context.Background())
	if res.Source != DefaultSource || res.Location.City != "Düsseldorf" {
		t.Errorf("Resolve() = %+v, want default", res)
	}
}

type slowSource struct{}

func (slowSource) Name() string { return "slow" }

func (slowSource) Locate(ctx context.Context) (weather.Location, error) {
	<-ctx.Done()
	return weather.Location{}, ctx.Err()
}

func TestResolverHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res := NewResolver(DefaultLocation, slowSource{}).Resolve(ctx)
	if res.Source != DefaultSource {
		t.Errorf("Source = %s, want %s", res.Source, DefaultSource)
	}
	if !errors.Is(res.Failed[0].Err, context.DeadlineExceeded) {
		t.Errorf("attempt error = %v, want deadline exceeded", res.Failed[0].Err)
	}
}
