package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-checker/internal/transport"
	"github.com/i474232898/weather-checker/internal/weather"
)

// GeoJSSource looks up the public IP's location at get.geojs.io.
type GeoJSSource struct {
	baseURL string
	httpCfg transport.Config
	circuit *gobreaker.CircuitBreaker
}

func NewGeoJSSource(client *http.Client) *GeoJSSource {
	return &GeoJSSource{
		baseURL: "https://get.geojs.io/v1/ip/geo.json",
		httpCfg: transport.Config{Client: client},
		circuit: transport.NewCircuitBreaker("geojs"),
	}
}

func (s *GeoJSSource) Name() string {
	return "geojs"
}

// geojsResponse carries coordinates as quoted numbers, e.g. "51.2402".
type geojsResponse struct {
	Country     string      `json:"country"`
	CountryCode string      `json:"country_code"`
	Region      string      `json:"region"`
	City        string      `json:"city"`
	Latitude    json.Number `json:"latitude"`
	Longitude   json.Number `json:"longitude"`
	Timezone    string      `json:"timezone"`
	Accuracy    int         `json:"accuracy"`
}

func (r geojsResponse) toLocation() (weather.Location, error) {
	lat, err := r.Latitude.Float64()
	if err != nil {
		return weather.Location{}, fmt.Errorf("parsing latitude: %w", err)
	}
	lon, err := r.Longitude.Float64()
	if err != nil {
		return weather.Location{}, fmt.Errorf("parsing longitude: %w", err)
	}
	return weather.Location{
		Country:   r.Country,
		Region:    r.Region,
		City:      r.City,
		Latitude:  lat,
		Longitude: lon,
	}, nil
}

func (s *GeoJSSource) Locate(ctx context.Context) (weather.Location, error) {
	var resp geojsResponse
	if err := transport.GetJSON(ctx, s.httpCfg, s.circuit, s.baseURL, &resp); err != nil {
		return weather.Location{}, err
	}
	return resp.toLocation()
}

// IPAPISource looks up the public IP's location at ip-api.com.
type IPAPISource struct {
	baseURL string
	httpCfg transport.Config
	circuit *gobreaker.CircuitBreaker
}

func NewIPAPISource(client *http.Client) *IPAPISource {
	return &IPAPISource{
		baseURL: "http://ip-api.com/json",
		httpCfg: transport.Config{Client: client},
		circuit: transport.NewCircuitBreaker("ipapi"),
	}
}

func (s *IPAPISource) Name() string {
	return "ipapi"
}

type ipapiResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Region      string  `json:"region"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Zip         string  `json:"zip"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Timezone    string  `json:"timezone"`
	Query       string  `json:"query"`
}

func (r ipapiResponse) toLocation() (weather.Location, error) {
	if r.Status != "success" {
		return weather.Location{}, fmt.Errorf("%w: ip-api status %q: %s", ErrLookupFailed, r.Status, r.Message)
	}
	return weather.Location{
		Country:   r.Country,
		Region:    r.RegionName,
		City:      r.City,
		Latitude:  r.Lat,
		Longitude: r.Lon,
	}, nil
}

func (s *IPAPISource) Locate(ctx context.Context) (weather.Location, error) {
	var resp ipapiResponse
	if err := transport.GetJSON(ctx, s.httpCfg, s.circuit, s.baseURL, &resp); err != nil {
		return weather.Location{}, err
	}
	return resp.toLocation()
}
