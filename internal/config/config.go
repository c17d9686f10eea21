package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-checker/internal/weather"
)

// Geolocation source names accepted in GEOLOCATION_SOURCES.
const (
	SourceNative = "native"
	SourceGeoJS  = "geojs"
	SourceIPAPI  = "ipapi"
)

type AppConfig struct {
	Port string

	// HTTPTimeout bounds every outbound request.
	HTTPTimeout time.Duration `validate:"gt=0"`

	ForecastProvider string `validate:"oneof=openmeteo 7timer"`
	ForecastTimezone string `validate:"required"`

	// GeolocationSources lists the location sources in the order they are tried.
	GeolocationSources []string `validate:"dive,oneof=native geojs ipapi"`

	// NativePosition is the fixed position served by the native source; nil
	// when the platform offers no location service.
	NativePosition *weather.Location

	GoogleGeocoderAPIKey string
	ReverseGeocode       bool

	DefaultLocation weather.Location

	// CheckInterval controls how often serve mode runs the checker.
	CheckInterval time.Duration `validate:"gt=0"`

	// In-memory store retention.
	StoreMaxHistory int           `validate:"gte=0"` // max number of runs kept (0 = unlimited)
	StoreMaxAge     time.Duration `validate:"gte=0"` // max age of runs (0 = unlimited)
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	cfg.ForecastProvider = strings.ToLower(getenvDefault("FORECAST_PROVIDER", "openmeteo"))
	cfg.ForecastTimezone = getenvDefault("FORECAST_TIMEZONE", "Europe/Berlin")
	cfg.GeolocationSources = splitList(getenvDefault("GEOLOCATION_SOURCES", "native,geojs,ipapi"))

	if cfg.NativePosition, err = loadNativePosition(); err != nil {
		return nil, err
	}
	cfg.GoogleGeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")
	cfg.ReverseGeocode = getenvBool("REVERSE_GEOCODE", true)

	if cfg.DefaultLocation, err = loadDefaultLocation(); err != nil {
		return nil, err
	}

	// Scheduler interval: default 15 minutes.
	if cfg.CheckInterval, err = getenvDuration("CHECK_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadNativePosition() (*weather.Location, error) {
	latStr, lonStr := os.Getenv("NATIVE_LATITUDE"), os.Getenv("NATIVE_LONGITUDE")
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	lat, lon, err := parseCoordinates("NATIVE", latStr, lonStr)
	if err != nil {
		return nil, err
	}
	pos := &weather.Location{Latitude: lat, Longitude: lon}
	if v := os.Getenv("NATIVE_ELEVATION"); v != "" {
		elevation, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid NATIVE_ELEVATION: %w", err)
		}
		pos.Elevation = &elevation
	}
	return pos, nil
}

func loadDefaultLocation() (weather.Location, error) {
	lat, lon, err := parseCoordinates("DEFAULT",
		getenvDefault("DEFAULT_LATITUDE", "51.2277"),
		getenvDefault("DEFAULT_LONGITUDE", "6.7735"))
	if err != nil {
		return weather.Location{}, err
	}
	loc := weather.Location{
		City:      getenvDefault("DEFAULT_CITY", "Düsseldorf"),
		Latitude:  lat,
		Longitude: lon,
	}
	if loc.City == "Düsseldorf" {
		loc.Country, loc.Region = "Germany", "North Rhine-Westphalia"
	}
	return loc, nil
}

func parseCoordinates(prefix, latStr, lonStr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("invalid %s_LATITUDE %q", prefix, latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("invalid %s_LONGITUDE %q", prefix, lonStr)
	}
	return lat, lon, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
