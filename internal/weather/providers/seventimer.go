package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/i474232898/weather-checker/internal/transport"
	"github.com/i474232898/weather-checker/internal/weather"
	"github.com/sony/gobreaker"
)

// SevenTimerProvider implements the weather.Provider interface for the
// legacy 3-hourly 7Timer "civil" product.
type SevenTimerProvider struct {
	name    string
	baseURL string
	httpCfg transport.Config
	circuit *gobreaker.CircuitBreaker
}

func NewSevenTimerProvider(client *http.Client) *SevenTimerProvider {
	return &SevenTimerProvider{
		name:    "7timer",
		baseURL: "https://www.7timer.info/bin/api.pl",
		httpCfg: transport.Config{Client: client},
		circuit: transport.NewCircuitBreaker("7timer"),
	}
}

func (p *SevenTimerProvider) Name() string {
	return p.name
}

type sevenTimerResponse struct {
	Product    string `json:"product"`
	Init       string `json:"init"`
	Dataseries []struct {
		Timepoint  int    `json:"timepoint"`
		CloudCover int    `json:"cloudcover"`
		PrecType   string `json:"prec_type"`
		PrecAmount int    `json:"prec_amount"`
		Temp2m     int    `json:"temp2m"`
		Rh2m       string `json:"rh2m"`
		Wind10m    struct {
			Direction string `json:"direction"`
			Speed     int    `json:"speed"`
		} `json:"wind10m"`
		Weather string `json:"weather"`
	} `json:"dataseries"`
}

func (r sevenTimerResponse) toLegacyForecast() *weather.LegacyForecast {
	out := &weather.LegacyForecast{
		Product: r.Product,
		Init:    r.Init,
		Points:  make([]weather.LegacyPoint, 0, len(r.Dataseries)),
	}
	for _, d := range r.Dataseries {
		out.Points = append(out.Points, weather.LegacyPoint{
			Timepoint:        d.Timepoint,
			CloudCover:       d.CloudCover,
			PrecType:         d.PrecType,
			PrecAmount:       d.PrecAmount,
			Temperature:      d.Temp2m,
			RelativeHumidity: d.Rh2m,
			WindDirection:    d.Wind10m.Direction,
			WindSpeed:        d.Wind10m.Speed,
			Weather:          d.Weather,
		})
	}
	return out
}

func (p *SevenTimerProvider) Fetch(ctx context.Context, lat, lon float64) (weather.Payload, error) {
	values := url.Values{}
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("product", "civil")
	values.Set("output", "json")

	var resp sevenTimerResponse
	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	if err := transport.GetJSON(ctx, p.httpCfg, p.circuit, u, &resp); err != nil {
		return nil, err
	}
	return resp.toLegacyForecast(), nil
}
