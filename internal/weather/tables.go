package weather

import (
	"fmt"
	"math"
)

// compassPoints has "N" at both ends so bearings in [348.75, 360) land on
// index 16 without a modulo.
var compassPoints = [17]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW", "N",
}

// wmoNames maps WMO weather interpretation codes to simplified weather names.
var wmoNames = map[int]string{
	0:   "clear",
	1:   "clear",
	2:   "pcloudy",
	3:   "mcloudy",
	45:  "humid",
	48:  "humid",
	51:  "ishower",
	53:  "ishower",
	55:  "ishower",
	56:  "ishower",
	57:  "ishower",
	61:  "lightrain",
	63:  "rain",
	65:  "rain",
	66:  "rainsnow",
	67:  "rain",
	71:  "lightsnow",
	73:  "snow",
	75:  "snow",
	77:  "snow",
	80:  "oshower",
	81:  "oshower",
	82:  "oshower",
	85:  "lightsnow",
	86:  "snow",
	95:  "ts",
	96:  "tsrain",
	99:  "tsrain",
	100: "windy",
}

// CompassPoint converts a bearing in degrees to one of 16 compass points.
// The bearing is first brought into [0, 360), then rounded half up to the
// nearest 22.5° sector.
func CompassPoint(degrees float64) string {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	index := int(d/22.5 + 0.5)
	if index >= len(compassPoints) {
		index = len(compassPoints) - 1
	}
	return compassPoints[index]
}

// WeatherDescriptor maps a WMO code to its simplified name suffixed with
// "day" or "night".
func WeatherDescriptor(code int, daylight bool) (string, error) {
	name, ok := wmoNames[code]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownWeatherCode, code)
	}
	if daylight {
		return name + "day", nil
	}
	return name + "night", nil
}

// IsDaylight reports whether timepoint lies in [sunrise, sunset). All three
// must share the same layout and offset, e.g. "2024-04-29T09:00", so that
// string order matches time order.
func IsDaylight(timepoint, sunrise, sunset string) bool {
	return timepoint >= sunrise && timepoint < sunset
}
