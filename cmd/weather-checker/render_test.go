package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/weather-checker/internal/checker"
	"github.com/i474232898/weather-checker/internal/weather"
)

func TestDescribeWeather(t *testing.T) {
	tests := map[string]string{
		"clearday":       "Clear (Day)",
		"lightrainnight": "Light Rain (Night)",
		"tsrainday":      "Thunderstorm With Rain (Day)",
		"pcloudynight":   "Partly Cloudy (Night)",
		"hail":           "Hail",
	}
	for in, want := range tests {
		if got := describeWeather(in); got != want {
			t.Errorf("describeWeather(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderReport(t *testing.T) {
	report := weather.NewReport(time.Date(2024, 9, 9, 6, 0, 0, 0, time.UTC))
	report.Location = &weather.Location{City: "Düsseldorf", Latitude: 51.2277, Longitude: 6.7735}
	report.Dataseries = []weather.ForecastPoint{{
		Timepoint:   "2024-09-09T12:00",
		Weather:     "clearday",
		Temperature: "21.3 °C",
		Wind:        weather.Wind{Direction: "SW", Speed: "3.1 m/s"},
		Rain:        "0 mm",
	}}

	var buf bytes.Buffer
	renderReport(&buf, checker.LogicalTrue, report)
	out := buf.String()

	for _, want := range []string{"true", "1", "Düsseldorf", "Clear (Day)", "21.3 °C", "SW"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
}
