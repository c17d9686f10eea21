package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/i474232898/weather-checker/internal/checker"
	"github.com/i474232898/weather-checker/internal/config"
	"github.com/i474232898/weather-checker/internal/geolocation"
	"github.com/i474232898/weather-checker/internal/transport"
	"github.com/i474232898/weather-checker/internal/weather"
	"github.com/i474232898/weather-checker/internal/weather/providers"
)

// components are the pieces shared by both modes.
type components struct {
	service *weather.Service
	checker *checker.WeatherChecker
}

func build(cfg *config.AppConfig) (*components, error) {
	// Shared HTTP client for outbound calls.
	httpClient := transport.NewClient(cfg.HTTPTimeout)

	provider, err := providers.New(cfg.ForecastProvider, httpClient, cfg.ForecastTimezone)
	if err != nil {
		return nil, err
	}
	service := weather.NewService(provider)

	sources, err := buildSources(cfg, httpClient)
	if err != nil {
		return nil, err
	}
	resolver := geolocation.NewResolver(cfg.DefaultLocation, sources...)

	return &components{
		service: service,
		checker: checker.New(resolver, service),
	}, nil
}

func buildSources(cfg *config.AppConfig, httpClient *http.Client) ([]geolocation.Source, error) {
	var sources []geolocation.Source
	for _, name := range cfg.GeolocationSources {
		switch name {
		case config.SourceNative:
			sources = append(sources, geolocation.NewNativeSource(positionService(cfg), reverseGeocoder(cfg, httpClient)))
		case config.SourceGeoJS:
			sources = append(sources, geolocation.NewGeoJSSource(httpClient))
		case config.SourceIPAPI:
			sources = append(sources, geolocation.NewIPAPISource(httpClient))
		default:
			return nil, fmt.Errorf("unknown geolocation source %q", name)
		}
	}
	return sources, nil
}

func positionService(cfg *config.AppConfig) geolocation.PositionService {
	if cfg.NativePosition == nil {
		return geolocation.UnavailablePositionService{}
	}
	return geolocation.StaticPositionService{Position: geolocation.Position{
		Latitude:  cfg.NativePosition.Latitude,
		Longitude: cfg.NativePosition.Longitude,
		Altitude:  cfg.NativePosition.Elevation,
	}}
}

func reverseGeocoder(cfg *config.AppConfig, httpClient *http.Client) geolocation.ReverseGeocoder {
	switch {
	case !cfg.ReverseGeocode:
		return nil
	case cfg.GoogleGeocoderAPIKey != "":
		log.Println("INFO: reverse geocoding native positions via Google")
		return geolocation.NewGoogleReverse(cfg.GoogleGeocoderAPIKey)
	default:
		return geolocation.NewNominatimReverse(httpClient)
	}
}
