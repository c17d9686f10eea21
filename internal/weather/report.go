package weather

import (
	"strconv"
	"strings"
	"time"
)

// Location represents the place a forecast was requested for.
// Elevation is nil when the source could not provide one.
type Location struct {
	Country   string   `json:"country"`
	Region    string   `json:"region"`
	City      string   `json:"city"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Elevation *float64 `json:"elevation,omitempty"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return formatNumber(l.Latitude) + ":" + formatNumber(l.Longitude)
}

func (l Location) String() string {
	var b strings.Builder
	b.WriteString("Country: " + l.Country)
	b.WriteString(", Region: " + l.Region)
	b.WriteString(", City: " + l.City)
	b.WriteString(", Latitude: " + formatNumber(l.Latitude))
	b.WriteString(", Longitude: " + formatNumber(l.Longitude))
	if l.Elevation != nil {
		b.WriteString(", Elevation: " + formatNumber(*l.Elevation))
	}
	return b.String()
}

// Wind holds the wind readings of a ForecastPoint.
type Wind struct {
	Direction string `json:"direction"`
	Speed     string `json:"speed"`
	GustSpeed string `json:"gustSpeed"`
}

// ForecastPoint is one reconciled observation. Values carry their unit
// suffix, e.g. "12.3 °C".
type ForecastPoint struct {
	Timepoint                string `json:"timepoint"`
	Temperature              string `json:"temperature"`
	Humidity                 string `json:"humidity"`
	ApparentTemperature      string `json:"apparentTemperature"`
	PrecipitationProbability string `json:"precipitationProbability"`
	Rain                     string `json:"rain"`
	Showers                  string `json:"showers"`
	Snowfall                 string `json:"snowfall"`
	Weather                  string `json:"weather"`
	SurfacePressure          string `json:"surfacePressure"`
	CloudCover               string `json:"cloudCover"`
	Wind                     Wind   `json:"wind10m"`
	Sunrise                  string `json:"sunrise"`
	Sunset                   string `json:"sunset"`
	SunshineDuration         string `json:"sunshineDuration"`
	RainSum                  string `json:"rainSum"`
	ShowersSum               string `json:"showersSum"`
	SnowfallSum              string `json:"snowfallSum"`
}

func (p ForecastPoint) String() string {
	fields := []string{
		p.Timepoint,
		p.Weather,
		p.Temperature,
		"feels " + p.ApparentTemperature,
		"humidity " + p.Humidity,
		"precipitation " + p.PrecipitationProbability,
		"rain " + p.Rain,
		"showers " + p.Showers,
		"snowfall " + p.Snowfall,
		"pressure " + p.SurfacePressure,
		"clouds " + p.CloudCover,
		"wind " + p.Wind.Direction + " " + p.Wind.Speed + " gusts " + p.Wind.GustSpeed,
		"sunrise " + p.Sunrise,
		"sunset " + p.Sunset,
		"sunshine " + p.SunshineDuration,
		"rain sum " + p.RainSum,
		"showers sum " + p.ShowersSum,
		"snowfall sum " + p.SnowfallSum,
	}
	return strings.Join(fields, ", ")
}

// Report is the unified result handed to the host. Dataseries is ordered by
// ascending Timepoint.
type Report struct {
	CreatedAt  time.Time       `json:"createdAt"`
	Location   *Location       `json:"location,omitempty"`
	Dataseries []ForecastPoint `json:"dataseries"`
}

// NewReport returns an empty report stamped with created.
func NewReport(created time.Time) *Report {
	return &Report{
		CreatedAt:  created,
		Dataseries: []ForecastPoint{},
	}
}

// RecordCount is the number of points in the dataseries.
func (r *Report) RecordCount() int {
	if r == nil {
		return 0
	}
	return len(r.Dataseries)
}

// Equal reports whether both dataseries hold the same points in the same order.
func (r *Report) Equal(other *Report) bool {
	if r == nil || other == nil {
		return r == other
	}
	if len(r.Dataseries) != len(other.Dataseries) {
		return false
	}
	for i := range r.Dataseries {
		if r.Dataseries[i] != other.Dataseries[i] {
			return false
		}
	}
	return true
}

func (r *Report) String() string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("RecordCount: " + strconv.Itoa(r.RecordCount()))
	if r.Location != nil {
		b.WriteString("\nLocation: " + r.Location.String())
	}
	for _, p := range r.Dataseries {
		b.WriteString("\n" + p.String())
	}
	return b.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
