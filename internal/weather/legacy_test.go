package weather

import (
	"errors"
	"testing"
)

func legacySample() *LegacyForecast {
	return &LegacyForecast{
		Product: "civil",
		Init:    "2024042512",
		Points: []LegacyPoint{
			{Timepoint: 3, CloudCover: 2, PrecType: "none", PrecAmount: 0, Temperature: 14, RelativeHumidity: "54%", WindDirection: "W", WindSpeed: 3, Weather: "pcloudyday"},
			{Timepoint: 12, CloudCover: 9, PrecType: "rain", PrecAmount: 3, Temperature: 9, RelativeHumidity: "90%", WindDirection: "SW", WindSpeed: 4, Weather: "lightrainnight"},
			{Timepoint: 15, CloudCover: 8, PrecType: "snow", PrecAmount: 1, Temperature: -1, RelativeHumidity: "88%", WindDirection: "N", WindSpeed: 2, Weather: "lightsnownight"},
		},
	}
}

func TestNormalizeLegacy(t *testing.T) {
	report, err := NormalizeLegacy(legacySample(), testLocation(), created)
	if err != nil {
		t.Fatalf("NormalizeLegacy() error = %v", err)
	}
	if report.RecordCount() != 3 {
		t.Fatalf("RecordCount() = %d, want 3", report.RecordCount())
	}

	first := report.Dataseries[0]
	if first.Timepoint != "2024-04-25T15:00" {
		t.Errorf("Timepoint = %s, want 2024-04-25T15:00", first.Timepoint)
	}
	if first.Temperature != "14 °C" || first.Humidity != "54 %" || first.CloudCover != "6-19 %" {
		t.Errorf("first point = %+v", first)
	}
	if first.Wind != (Wind{Direction: "W", Speed: "3.4-8 m/s"}) {
		t.Errorf("Wind = %+v", first.Wind)
	}
	if first.Rain != "0 mm" || first.Snowfall != "0 mm" {
		t.Errorf("precipitation = %s / %s", first.Rain, first.Snowfall)
	}

	second := report.Dataseries[1]
	if second.Timepoint != "2024-04-26T00:00" || second.Rain != "1-4 mm" || second.Weather != "lightrainnight" {
		t.Errorf("second point = %+v", second)
	}
	if third := report.Dataseries[2]; third.Snowfall != "0-0.25 mm" || third.Temperature != "-1 °C" {
		t.Errorf("third point = %+v", third)
	}
}

func TestNormalizeLegacyErrors(t *testing.T) {
	bad := legacySample()
	bad.Init = "25.04.2024"
	if _, err := NormalizeLegacy(bad, testLocation(), created); !errors.Is(err, ErrInvalidInit) {
		t.Errorf("error = %v, want ErrInvalidInit", err)
	}

	for _, mutate := range []func(*LegacyPoint){
		func(p *LegacyPoint) { p.CloudCover = 0 },
		func(p *LegacyPoint) { p.PrecAmount = 10 },
		func(p *LegacyPoint) { p.WindSpeed = 9 },
	} {
		bad := legacySample()
		mutate(&bad.Points[1])
		if _, err := NormalizeLegacy(bad, testLocation(), created); !errors.Is(err, ErrScaleOutOfRange) {
			t.Errorf("error = %v, want ErrScaleOutOfRange", err)
		}
	}
}

func TestNormalizeLegacyDegrades(t *testing.T) {
	report, err := NormalizeLegacy(legacySample(), nil, created)
	if err != nil || report.RecordCount() != 0 || report.Location != nil {
		t.Errorf("nil location: report = %v, err = %v", report, err)
	}

	var payload Payload = &LegacyForecast{Init: "2024042512"}
	report, err = payload.Reconcile(testLocation(), created)
	if err != nil || report.RecordCount() != 0 || report.Location == nil {
		t.Errorf("empty dataseries: report = %v, err = %v", report, err)
	}
}
