package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/i474232898/weather-checker/internal/transport"
	"github.com/i474232898/weather-checker/internal/weather"
	"github.com/sony/gobreaker"
)

// ForecastDays is the forecast horizon requested from Open-Meteo.
const ForecastDays = 7

var (
	openMeteoHourly = []string{
		"temperature_2m",
		"relative_humidity_2m",
		"apparent_temperature",
		"precipitation_probability",
		"rain",
		"showers",
		"snowfall",
		"weather_code",
		"cloud_cover",
		"surface_pressure",
		"wind_speed_10m",
		"wind_direction_10m",
		"wind_gusts_10m",
	}
	openMeteoDaily = []string{
		"temperature_2m_max",
		"temperature_2m_min",
		"apparent_temperature_min",
		"apparent_temperature_max",
		"sunrise",
		"sunset",
		"sunshine_duration",
		"rain_sum",
		"showers_sum",
		"snowfall_sum",
	}
)

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	timezone string
	httpCfg  transport.Config
	circuit  *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, timezone string) *OpenMeteoProvider {
	if timezone == "" {
		timezone = "Europe/Berlin"
	}
	return &OpenMeteoProvider{
		name:     "openmeteo",
		baseURL:  "https://api.open-meteo.com/v1/forecast",
		timezone: timezone,
		httpCfg:  transport.Config{Client: client},
		circuit:  transport.NewCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, lat, lon float64) (weather.Payload, error) {
	var payload weather.RawForecast
	if err := transport.GetJSON(ctx, p.httpCfg, p.circuit, p.requestURL(lat, lon), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (p *OpenMeteoProvider) requestURL(lat, lon float64) string {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("timezone", p.timezone)
	values.Set("forecast_days", strconv.Itoa(ForecastDays))
	// Speeds are labelled m/s by the normalizer; Open-Meteo defaults to km/h.
	values.Set("wind_speed_unit", "ms")
	values.Set("hourly", strings.Join(openMeteoHourly, ","))
	values.Set("daily", strings.Join(openMeteoDaily, ","))

	return fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
}
