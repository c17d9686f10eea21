package weather

import (
	"errors"
	"fmt"
	"time"
)

// ReportStride is the decimation step from hourly samples to report points.
const ReportStride = 3

var (
	// ErrDailyRecordNotFound is returned when an hourly date has no daily record.
	ErrDailyRecordNotFound = errors.New("no daily record for date")
	// ErrUnknownWeatherCode is returned for WMO codes outside the lookup table.
	ErrUnknownWeatherCode = errors.New("undefined weather code")
	// ErrMisalignedSeries is returned when parallel arrays differ in length.
	ErrMisalignedSeries = errors.New("misaligned forecast series")
)

// RawForecast is the Open-Meteo forecast response as fetched. Arrays within
// Hourly (and within Daily) are index aligned.
type RawForecast struct {
	Latitude         float64           `json:"latitude"`
	Longitude        float64           `json:"longitude"`
	Timezone         string            `json:"timezone"`
	UTCOffsetSeconds int               `json:"utc_offset_seconds"`
	Elevation        *float64          `json:"elevation"`
	HourlyUnits      map[string]string `json:"hourly_units"`
	Hourly           *HourlySeries     `json:"hourly"`
	DailyUnits       map[string]string `json:"daily_units"`
	Daily            *DailySeries      `json:"daily"`
}

// HourlySeries holds the hourly variables requested from the provider.
type HourlySeries struct {
	Time                     []string  `json:"time"`
	Temperature              []float64 `json:"temperature_2m"`
	RelativeHumidity         []float64 `json:"relative_humidity_2m"`
	ApparentTemperature      []float64 `json:"apparent_temperature"`
	PrecipitationProbability []float64 `json:"precipitation_probability"`
	Rain                     []float64 `json:"rain"`
	Showers                  []float64 `json:"showers"`
	Snowfall                 []float64 `json:"snowfall"`
	WeatherCode              []int     `json:"weather_code"`
	CloudCover               []float64 `json:"cloud_cover"`
	SurfacePressure          []float64 `json:"surface_pressure"`
	WindSpeed                []float64 `json:"wind_speed_10m"`
	WindDirection            []float64 `json:"wind_direction_10m"`
	WindGusts                []float64 `json:"wind_gusts_10m"`
}

// DailySeries holds the daily variables requested from the provider.
type DailySeries struct {
	Time                   []string  `json:"time"`
	TemperatureMax         []float64 `json:"temperature_2m_max"`
	TemperatureMin         []float64 `json:"temperature_2m_min"`
	ApparentTemperatureMin []float64 `json:"apparent_temperature_min"`
	ApparentTemperatureMax []float64 `json:"apparent_temperature_max"`
	Sunrise                []string  `json:"sunrise"`
	Sunset                 []string  `json:"sunset"`
	SunshineDuration       []float64 `json:"sunshine_duration"`
	RainSum                []float64 `json:"rain_sum"`
	ShowersSum             []float64 `json:"showers_sum"`
	SnowfallSum            []float64 `json:"snowfall_sum"`
}

// Reconcile implements Payload.
func (f *RawForecast) Reconcile(loc *Location, created time.Time) (*Report, error) {
	return Normalize(f, loc, created)
}

// Normalize reconciles an hourly forecast into a 3-hourly Report.
//
// Every ReportStride-th hourly sample is kept as is. Each kept sample is
// joined with the daily record of its calendar date, which supplies the
// sunrise/sunset window used to pick the day or night weather descriptor.
// A nil location or missing series yields an empty report; join and lookup
// failures are returned as errors.
func Normalize(raw *RawForecast, loc *Location, created time.Time) (*Report, error) {
	report := NewReport(created)
	if loc == nil {
		return report, nil
	}
	owned := *loc
	report.Location = &owned
	if raw == nil || raw.Hourly == nil || raw.Daily == nil {
		return report, nil
	}
	if owned.Elevation == nil && raw.Elevation != nil {
		elevation := *raw.Elevation
		owned.Elevation = &elevation
	}

	hourly, daily := raw.Hourly, raw.Daily
	if err := hourly.validate(); err != nil {
		return nil, err
	}
	if err := daily.validate(); err != nil {
		return nil, err
	}

	days := make(map[string]int, len(daily.Time))
	for i, date := range daily.Time {
		if _, seen := days[date]; !seen {
			days[date] = i
		}
	}

	points := make([]ForecastPoint, 0, (len(hourly.Time)+ReportStride-1)/ReportStride)
	for j := 0; j < len(hourly.Time); j += ReportStride {
		timepoint := hourly.Time[j]
		d, ok := days[dateKey(timepoint)]
		if !ok {
			return nil, fmt.Errorf("%w: %q (hourly index %d)", ErrDailyRecordNotFound, dateKey(timepoint), j)
		}

		sunrise, sunset := daily.Sunrise[d], daily.Sunset[d]
		descriptor, err := WeatherDescriptor(hourly.WeatherCode[j], IsDaylight(timepoint, sunrise, sunset))
		if err != nil {
			return nil, fmt.Errorf("hourly index %d: %w", j, err)
		}

		points = append(points, ForecastPoint{
			Timepoint:                timepoint,
			Temperature:              withUnit(hourly.Temperature[j], "°C"),
			Humidity:                 withUnit(hourly.RelativeHumidity[j], "%"),
			ApparentTemperature:      withUnit(hourly.ApparentTemperature[j], "°C"),
			PrecipitationProbability: withUnit(hourly.PrecipitationProbability[j], "%"),
			Rain:                     withUnit(hourly.Rain[j], "mm"),
			Showers:                  withUnit(hourly.Showers[j], "mm"),
			Snowfall:                 withUnit(hourly.Snowfall[j], "cm"),
			Weather:                  descriptor,
			SurfacePressure:          withUnit(hourly.SurfacePressure[j], "hPa"),
			CloudCover:               withUnit(hourly.CloudCover[j], "%"),
			Wind: Wind{
				Direction: CompassPoint(hourly.WindDirection[j]),
				Speed:     withUnit(hourly.WindSpeed[j], "m/s"),
				GustSpeed: withUnit(hourly.WindGusts[j], "m/s"),
			},
			Sunrise:          sunrise,
			Sunset:           sunset,
			SunshineDuration: withUnit(daily.SunshineDuration[d], "s"),
			RainSum:          withUnit(daily.RainSum[d], "mm"),
			ShowersSum:       withUnit(daily.ShowersSum[d], "mm"),
			SnowfallSum:      withUnit(daily.SnowfallSum[d], "cm"),
		})
	}

	report.Dataseries = points
	return report, nil
}

func (h *HourlySeries) validate() error {
	n := len(h.Time)
	lengths := []seriesLength{
		{"temperature_2m", len(h.Temperature)},
		{"relative_humidity_2m", len(h.RelativeHumidity)},
		{"apparent_temperature", len(h.ApparentTemperature)},
		{"precipitation_probability", len(h.PrecipitationProbability)},
		{"rain", len(h.Rain)},
		{"showers", len(h.Showers)},
		{"snowfall", len(h.Snowfall)},
		{"weather_code", len(h.WeatherCode)},
		{"cloud_cover", len(h.CloudCover)},
		{"surface_pressure", len(h.SurfacePressure)},
		{"wind_speed_10m", len(h.WindSpeed)},
		{"wind_direction_10m", len(h.WindDirection)},
		{"wind_gusts_10m", len(h.WindGusts)},
	}
	return checkLengths("hourly", n, lengths)
}

func (d *DailySeries) validate() error {
	n := len(d.Time)
	lengths := []seriesLength{
		{"sunrise", len(d.Sunrise)},
		{"sunset", len(d.Sunset)},
		{"sunshine_duration", len(d.SunshineDuration)},
		{"rain_sum", len(d.RainSum)},
		{"showers_sum", len(d.ShowersSum)},
		{"snowfall_sum", len(d.SnowfallSum)},
	}
	return checkLengths("daily", n, lengths)
}

type seriesLength struct {
	name string
	n    int
}

// checkLengths reports the first series, in request order, whose length
// differs from want.
func checkLengths(section string, want int, lengths []seriesLength) error {
	for _, l := range lengths {
		if l.n != want {
			return fmt.Errorf("%w: %s.%s has %d values, time has %d", ErrMisalignedSeries, section, l.name, l.n, want)
		}
	}
	return nil
}

// dateKey returns the calendar date prefix of an ISO-like timestamp.
func dateKey(timepoint string) string {
	if len(timepoint) < 10 {
		return timepoint
	}
	return timepoint[:10]
}

func withUnit(v float64, unit string) string {
	return formatNumber(v) + " " + unit
}
