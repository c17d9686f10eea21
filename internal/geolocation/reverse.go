package geolocation

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-checker/internal/transport"
)

const nominatimUserAgent = "weather-checker/1.0" // Required by Nominatim ToS

// Address names the place at a coordinate.
type Address struct {
	Country string
	Region  string
	City    string
}

// ReverseGeocoder turns coordinates into an Address.
type ReverseGeocoder interface {
	Name() string
	Reverse(ctx context.Context, lat, lon float64) (Address, error)
}

// NominatimReverse uses the OpenStreetMap Nominatim reverse endpoint.
type NominatimReverse struct {
	baseURL string
	httpCfg transport.Config
	circuit *gobreaker.CircuitBreaker
}

// NewNominatimReverse paces requests to one per second as Nominatim demands.
func NewNominatimReverse(client *http.Client) *NominatimReverse {
	return &NominatimReverse{
		baseURL: "https://nominatim.openstreetmap.org/reverse",
		httpCfg: transport.Config{
			Client:    client,
			UserAgent: nominatimUserAgent,
			Limiter:   rate.NewLimiter(rate.Limit(1), 1),
		},
		circuit: transport.NewCircuitBreaker("nominatim"),
	}
}

func (n *NominatimReverse) Name() string {
	return "nominatim"
}

// nominatimResponse is the reverse lookup shape with the place nested under "address".
type nominatimResponse struct {
	Address *struct {
		Country string `json:"country"`
		State   string `json:"state"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
	} `json:"address"`
	Licence string `json:"licence"`
	Error   string `json:"error"`
}

func (r nominatimResponse) toAddress() (Address, error) {
	if r.Address == nil {
		return Address{}, fmt.Errorf("%w: nominatim: %s", ErrLookupFailed, r.Error)
	}
	city := r.Address.City
	if city == "" {
		city = r.Address.Town
	}
	if city == "" {
		city = r.Address.Village
	}
	return Address{Country: r.Address.Country, Region: r.Address.State, City: city}, nil
}

func (n *NominatimReverse) Reverse(ctx context.Context, lat, lon float64) (Address, error) {
	values := url.Values{}
	values.Set("format", "jsonv2")
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var resp nominatimResponse
	u := fmt.Sprintf("%s?%s", n.baseURL, values.Encode())
	if err := transport.GetJSON(ctx, n.httpCfg, n.circuit, u, &resp); err != nil {
		return Address{}, err
	}
	return resp.toAddress()
}

// GoogleReverse uses the Google Geocoding API through kelvins/geocoder.
type GoogleReverse struct {
	lookup func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGoogleReverse sets the package-wide geocoder API key.
func NewGoogleReverse(apiKey string) *GoogleReverse {
	geocoder.ApiKey = apiKey
	return &GoogleReverse{lookup: geocoder.GeocodingReverse}
}

func (g *GoogleReverse) Name() string {
	return "google"
}

func (g *GoogleReverse) Reverse(ctx context.Context, lat, lon float64) (Address, error) {
	if err := ctx.Err(); err != nil {
		return Address{}, err
	}
	addresses, err := g.lookup(geocoder.Location{Latitude: lat, Longitude: lon})
	if err != nil {
		return Address{}, fmt.Errorf("google reverse geocoding: %w", err)
	}
	if len(addresses) == 0 {
		return Address{}, fmt.Errorf("%w: google: no results for %v, %v", ErrLookupFailed, lat, lon)
	}
	a := addresses[0]
	return Address{Country: a.Country, Region: a.State, City: a.City}, nil
}
