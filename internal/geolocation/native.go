package geolocation

import (
	"context"
	"fmt"
	"log"

	"github.com/i474232898/weather-checker/internal/weather"
)

// DesiredAccuracyMeters is the accuracy requested from the platform service.
const DesiredAccuracyMeters = 100

// Position is a coordinate triple reported by a platform location service.
// Altitude is nil when the service does not know it.
type Position struct {
	Latitude  float64
	Longitude float64
	Altitude  *float64
}

// PositionService is the platform's native location capability.
type PositionService interface {
	// RequestAccess returns ErrAccessDenied or ErrServiceUnavailable when
	// positions cannot be read.
	RequestAccess(ctx context.Context) error
	CurrentPosition(ctx context.Context, desiredAccuracyMeters int) (Position, error)
}

// NativeSource reads the position from the platform location service and
// optionally names it with a reverse geocoder.
type NativeSource struct {
	service PositionService
	reverse ReverseGeocoder
}

// NewNativeSource creates a NativeSource. reverse may be nil.
func NewNativeSource(service PositionService, reverse ReverseGeocoder) *NativeSource {
	return &NativeSource{service: service, reverse: reverse}
}

func (s *NativeSource) Name() string {
	return "native"
}

func (s *NativeSource) Locate(ctx context.Context) (weather.Location, error) {
	if s.service == nil {
		return weather.Location{}, ErrServiceUnavailable
	}
	if err := s.service.RequestAccess(ctx); err != nil {
		return weather.Location{}, err
	}

	pos, err := s.service.CurrentPosition(ctx, DesiredAccuracyMeters)
	if err != nil {
		return weather.Location{}, fmt.Errorf("reading position: %w", err)
	}

	loc := weather.Location{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		Elevation: pos.Altitude,
	}

	if s.reverse != nil {
		addr, err := s.reverse.Reverse(ctx, pos.Latitude, pos.Longitude)
		if err != nil {
			log.Printf("native: reverse geocoding via %s failed: %v", s.reverse.Name(), err)
		} else {
			loc.Country, loc.Region, loc.City = addr.Country, addr.Region, addr.City
		}
	}
	return loc, nil
}

// StaticPositionService reports a fixed, configured position.
type StaticPositionService struct {
	Position Position
}

func (s StaticPositionService) RequestAccess(ctx context.Context) error {
	return nil
}

func (s StaticPositionService) CurrentPosition(ctx context.Context, desiredAccuracyMeters int) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	return s.Position, nil
}

// UnavailablePositionService stands in on platforms without a location service.
type UnavailablePositionService struct{}

func (UnavailablePositionService) RequestAccess(ctx context.Context) error {
	return ErrServiceUnavailable
}

func (UnavailablePositionService) CurrentPosition(ctx context.Context, desiredAccuracyMeters int) (Position, error) {
	return Position{}, ErrServiceUnavailable
}
