package providers

import (
	"fmt"
	"net/http"

	"github.com/i474232898/weather-checker/internal/weather"
)

// New returns the forecast provider registered under name.
func New(name string, client *http.Client, timezone string) (weather.Provider, error) {
	switch name {
	case "", "openmeteo":
		return NewOpenMeteoProvider(client, timezone), nil
	case "7timer":
		return NewSevenTimerProvider(client), nil
	default:
		return nil, fmt.Errorf("unknown forecast provider %q", name)
	}
}
