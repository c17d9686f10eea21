package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/i474232898/weather-checker/internal/transport"
	"github.com/i474232898/weather-checker/internal/weather"
)

const sevenTimerBody = `{
  "product": "civil",
  "init": "2024042512",
  "dataseries": [
    {"timepoint": 3, "cloudcover": 2, "lifted_index": 6, "prec_type": "none", "prec_amount": 0, "temp2m": 14, "rh2m": "54%", "wind10m": {"direction": "W", "speed": 3}, "weather": "pcloudyday"},
    {"timepoint": 6, "cloudcover": 9, "lifted_index": 6, "prec_type": "rain", "prec_amount": 2, "temp2m": 12, "rh2m": "71%", "wind10m": {"direction": "SW", "speed": 2}, "weather": "lightrainday"}
  ]
}`

func TestSevenTimerProviderFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("lat") != "51.2277" || q.Get("lon") != "6.7735" || q.Get("product") != "civil" || q.Get("output") != "json" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(sevenTimerBody))
	}))
	defer server.Close()

	p := NewSevenTimerProvider(transport.NewClient(0))
	p.baseURL = server.URL

	payload, err := p.Fetch(context.Background(), 51.2277, 6.7735)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	legacy, ok := payload.(*weather.LegacyForecast)
	if !ok {
		t.Fatalf("payload type = %T, want *weather.LegacyForecast", payload)
	}
	if legacy.Init != "2024042512" || len(legacy.Points) != 2 || legacy.Points[1].WindDirection != "SW" {
		t.Errorf("decoded payload = %+v", legacy)
	}

	report, err := payload.Reconcile(&weather.Location{Latitude: 51.2277, Longitude: 6.7735}, time.Now())
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if report.RecordCount() != 2 || report.Dataseries[1].Timepoint != "2024-04-25T18:00" || report.Dataseries[1].Rain != "0.25-1 mm" {
		t.Errorf("report = %s", report)
	}
}
