package geolocation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-checker/internal/weather"
)

// AttemptTimeout bounds a single location source.
const AttemptTimeout = 10 * time.Second

// DefaultSource names the fallback used when every source failed.
const DefaultSource = "default"

// DefaultLocation is used when no source succeeds (Düsseldorf).
var DefaultLocation = weather.Location{
	Country:   "Germany",
	Region:    "North Rhine-Westphalia",
	City:      "Düsseldorf",
	Latitude:  51.2277,
	Longitude: 6.7735,
}

var (
	// ErrAccessDenied is returned when the platform refuses location access.
	ErrAccessDenied = errors.New("location access denied")
	// ErrServiceUnavailable is returned when no platform location service exists.
	ErrServiceUnavailable = errors.New("location service unavailable")
	// ErrInvalidCoordinates is returned when a source reports out-of-range coordinates.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrLookupFailed is returned when a lookup service reports a failure in its body.
	ErrLookupFailed = errors.New("lookup failed")
)

var validate = validator.New()

type coordinates struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
}

func checkCoordinates(lat, lon float64) error {
	if err := validate.Struct(coordinates{Latitude: lat, Longitude: lon}); err != nil {
		return fmt.Errorf("%w: %v, %v", ErrInvalidCoordinates, lat, lon)
	}
	return nil
}

// Source is one way of finding out where we are.
type Source interface {
	Name() string
	Locate(ctx context.Context) (weather.Location, error)
}

// Attempt records the outcome of one source.
type Attempt struct {
	Source string
	Err    error
}

// Resolution is the outcome of Resolve. Source is the name of the source
// that produced Location, or DefaultSource.
type Resolution struct {
	Location weather.Location
	Source   string
	Failed   []Attempt
}

// Resolver tries its sources in order and keeps the first success.
type Resolver struct {
	sources  []Source
	fallback weather.Location
}

// NewResolver creates a Resolver that falls back to fallback when every
// source fails.
func NewResolver(fallback weather.Location, sources ...Source) *Resolver {
	return &Resolver{
		sources:  sources,
		fallback: fallback,
	}
}

// Resolve never fails: each source is tried once and the first success
// wins; when all fail the fallback location is returned.
func (r *Resolver) Resolve(ctx context.Context) Resolution {
	var failed []Attempt

	for _, src := range r.sources {
		loc, err := locate(ctx, src)
		if err == nil {
			log.Printf("INFO: location resolved via %s: %s", src.Name(), loc.Key())
			return Resolution{Location: loc, Source: src.Name(), Failed: failed}
		}
		log.Printf("ERROR: location source %s failed: %v", src.Name(), err)
		failed = append(failed, Attempt{Source: src.Name(), Err: err})
	}

	log.Printf("INFO: no location source succeeded; using default %s", r.fallback.Key())
	return Resolution{Location: r.fallback, Source: DefaultSource, Failed: failed}
}

func locate(ctx context.Context, src Source) (weather.Location, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, AttemptTimeout)
	defer cancel()

	loc, err := src.Locate(attemptCtx)
	if err != nil {
		return weather.Location{}, err
	}
	if err := checkCoordinates(loc.Latitude, loc.Longitude); err != nil {
		return weather.Location{}, err
	}
	return loc, nil
}
