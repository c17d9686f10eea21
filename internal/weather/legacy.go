package weather

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LegacyInitLayout is the layout of the legacy forecast run time, e.g. "2024042512".
const LegacyInitLayout = "2006010215"

// TimepointLayout is the timestamp layout used for report points.
const TimepointLayout = "2006-01-02T15:04"

var (
	// ErrInvalidInit is returned when the legacy run time cannot be parsed.
	ErrInvalidInit = errors.New("invalid forecast init time")
	// ErrScaleOutOfRange is returned for legacy class values outside their scale.
	ErrScaleOutOfRange = errors.New("value outside legacy scale")
)

// LegacyForecast is a 3-hourly forecast in the 7Timer "civil" shape. Values
// are coarse classes rather than measurements and the weather name already
// carries its day/night suffix.
type LegacyForecast struct {
	Product string
	Init    string
	Points  []LegacyPoint
}

// LegacyPoint is one 3-hourly sample. Timepoint counts hours after Init.
type LegacyPoint struct {
	Timepoint        int
	CloudCover       int
	PrecType         string
	PrecAmount       int
	Temperature      int
	RelativeHumidity string
	WindDirection    string
	WindSpeed        int
	Weather          string
}

// Class scales of the 7Timer civil product, indexed by class value.
var (
	legacyCloudCover = []string{"", "0-6", "6-19", "19-31", "31-44", "44-56", "56-69", "69-81", "81-94", "94-100"}
	legacyPrecAmount = []string{"0", "0-0.25", "0.25-1", "1-4", "4-10", "10-16", "16-30", "30-50", "50-75", "75-"}
	legacyWindSpeed  = []string{"", "0-0.3", "0.3-3.4", "3.4-8", "8-10.8", "10.8-17.2", "17.2-24.5", "24.5-32.6", "32.6-"}
)

// Reconcile implements Payload.
func (f *LegacyForecast) Reconcile(loc *Location, created time.Time) (*Report, error) {
	return NormalizeLegacy(f, loc, created)
}

// NormalizeLegacy converts a legacy 3-hourly forecast into a Report. The
// legacy series already has the report cadence, so no decimation happens and
// the daily fields stay empty.
func NormalizeLegacy(legacy *LegacyForecast, loc *Location, created time.Time) (*Report, error) {
	report := NewReport(created)
	if loc == nil {
		return report, nil
	}
	owned := *loc
	report.Location = &owned
	if legacy == nil || len(legacy.Points) == 0 {
		return report, nil
	}

	init, err := time.Parse(LegacyInitLayout, legacy.Init)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInit, legacy.Init)
	}

	points := make([]ForecastPoint, 0, len(legacy.Points))
	for i, lp := range legacy.Points {
		clouds, err := scaleValue(legacyCloudCover, lp.CloudCover, "cloudcover")
		if err != nil {
			return nil, fmt.Errorf("dataseries index %d: %w", i, err)
		}
		amount, err := scaleValue(legacyPrecAmount, lp.PrecAmount, "prec_amount")
		if err != nil {
			return nil, fmt.Errorf("dataseries index %d: %w", i, err)
		}
		wind, err := scaleValue(legacyWindSpeed, lp.WindSpeed, "wind10m.speed")
		if err != nil {
			return nil, fmt.Errorf("dataseries index %d: %w", i, err)
		}

		rain, snow := "0 mm", "0 mm"
		switch lp.PrecType {
		case "rain", "frzr", "icep":
			rain = amount + " mm"
		case "snow":
			snow = amount + " mm"
		}

		points = append(points, ForecastPoint{
			Timepoint:   init.Add(time.Duration(lp.Timepoint) * time.Hour).Format(TimepointLayout),
			Temperature: strconv.Itoa(lp.Temperature) + " °C",
			Humidity:    strings.TrimSpace(strings.TrimSuffix(lp.RelativeHumidity, "%")) + " %",
			Rain:        rain,
			Snowfall:    snow,
			Weather:     lp.Weather,
			CloudCover:  clouds + " %",
			Wind: Wind{
				Direction: lp.WindDirection,
				Speed:     wind + " m/s",
			},
		})
	}

	report.Dataseries = points
	return report, nil
}

func scaleValue(scale []string, class int, name string) (string, error) {
	if class < 0 || class >= len(scale) || scale[class] == "" {
		return "", fmt.Errorf("%w: %s=%d", ErrScaleOutOfRange, name, class)
	}
	return scale[class], nil
}
