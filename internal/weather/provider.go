package weather

import (
	"context"
	"time"
)

// Payload is a decoded provider response that can be reconciled into a Report.
// Each provider shape implements it with its own adapter.
type Payload interface {
	Reconcile(loc *Location, created time.Time) (*Report, error)
}

// Provider abstracts a forecast source (e.g. Open-Meteo, 7Timer).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, lat, lon float64) (Payload, error)
}

// Store is the contract the in-memory run history must satisfy.
type Store interface {
	SaveRun(run Run)
	GetLatest() (Run, error)
	GetRange(from, to time.Time) ([]Run, error)
}

// Run is one completed checker invocation.
type Run struct {
	ID       string    `json:"id"`
	Source   string    `json:"locationSource"`
	Provider string    `json:"provider"`
	Report   *Report   `json:"report"`
	Finished time.Time `json:"finished"`
}
