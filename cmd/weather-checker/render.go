package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/i474232898/weather-checker/internal/checker"
	"github.com/i474232898/weather-checker/internal/weather"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	timeStyle = lipgloss.NewStyle().
			Bold(true).
			Width(18)

	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

var titleCaser = cases.Title(language.English)

func renderProgress(w io.Writer, percent int) {
	fmt.Fprintln(w, progressStyle.Render(fmt.Sprintf("progress %3d%%", percent)))
}

func renderError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("check failed: ")+err.Error())
}

func renderReport(w io.Writer, result checker.Logical, report *weather.Report) {
	fmt.Fprintln(w, titleStyle.Render("Weather check"))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("result:"), result)
	fmt.Fprintf(w, "%s %d\n", labelStyle.Render("records:"), report.RecordCount())
	if report == nil {
		return
	}
	if report.Location != nil {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("location:"), report.Location)
	}
	fmt.Fprintln(w)

	for _, p := range report.Dataseries {
		fmt.Fprintf(w, "%s %-22s %s (feels %s), wind %s %s, rain %s\n",
			timeStyle.Render(p.Timepoint),
			describeWeather(p.Weather),
			p.Temperature,
			orDash(p.ApparentTemperature),
			p.Wind.Direction,
			p.Wind.Speed,
			p.Rain,
		)
	}
}

// weatherLabels names the simplified weather classes shared by both forecast
// shapes.
var weatherLabels = map[string]string{
	"clear":     "clear",
	"pcloudy":   "partly cloudy",
	"mcloudy":   "mostly cloudy",
	"cloudy":    "cloudy",
	"humid":     "foggy",
	"ishower":   "isolated showers",
	"oshower":   "occasional showers",
	"lightrain": "light rain",
	"rain":      "rain",
	"rainsnow":  "rain and snow",
	"lightsnow": "light snow",
	"snow":      "snow",
	"ts":        "thunderstorm",
	"tsrain":    "thunderstorm with rain",
	"windy":     "windy",
}

// describeWeather turns "lightrainnight" into "Light Rain (Night)".
func describeWeather(descriptor string) string {
	name, period := descriptor, ""
	for _, suffix := range []string{"day", "night"} {
		if strings.HasSuffix(descriptor, suffix) {
			name, period = strings.TrimSuffix(descriptor, suffix), suffix
			break
		}
	}
	label, ok := weatherLabels[name]
	if !ok {
		label = name
	}
	if period != "" {
		label += " (" + period + ")"
	}
	return titleCaser.String(label)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
