package checker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-checker/internal/geolocation"
	"github.com/i474232898/weather-checker/internal/weather"
)

// Progress checkpoints reported during one invocation.
const (
	ProgressStart   = 0
	ProgressWorking = 50
	ProgressDone    = 100
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("checker closed")

// Logical is the three-valued result a checker hands back to the host.
type Logical int

const (
	LogicalNull Logical = iota
	LogicalFalse
	LogicalTrue
)

func (l Logical) String() string {
	switch l {
	case LogicalTrue:
		return "true"
	case LogicalFalse:
		return "false"
	default:
		return "null"
	}
}

// TreeParameters describes the node of the host's check tree being run.
type TreeParameters struct {
	NodeID string
	Path   []string
	Values map[string]string
}

// TreeEvent is the host event that triggered the run.
type TreeEvent struct {
	Name     string
	Occurred time.Time
}

// ProgressFunc receives a percentage between 0 and 100.
type ProgressFunc func(percent int)

// NodeChecker is the contract the host uses to drive a checker.
type NodeChecker interface {
	Run(ctx context.Context, params string, tree *TreeParameters, event *TreeEvent) (Logical, error)
	OnProgress(fn ProgressFunc)
	ResultObject() *weather.Report
	Close() error
}

// LocationResolver finds the location to forecast for.
type LocationResolver interface {
	Resolve(ctx context.Context) geolocation.Resolution
}

// Forecaster fetches and reconciles the forecast for a location.
type Forecaster interface {
	ProviderName() string
	Forecast(ctx context.Context, loc weather.Location) (*weather.Report, error)
}

// WeatherChecker resolves the current location, fetches its forecast and
// keeps the reconciled Report as its result object.
type WeatherChecker struct {
	resolver   LocationResolver
	forecaster Forecaster

	// runMu serializes invocations.
	runMu sync.Mutex

	mu       sync.RWMutex
	progress ProgressFunc
	result   *weather.Report
	last     *weather.Run
	closed   bool
}

var _ NodeChecker = (*WeatherChecker)(nil)

// New creates a WeatherChecker.
func New(resolver LocationResolver, forecaster Forecaster) *WeatherChecker {
	return &WeatherChecker{
		resolver:   resolver,
		forecaster: forecaster,
	}
}

// OnProgress registers fn for progress notifications. A nil fn removes it.
func (c *WeatherChecker) OnProgress(fn ProgressFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = fn
}

// ResultObject returns the Report of the last successful run, or nil.
func (c *WeatherChecker) ResultObject() *weather.Report {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// LastRun returns the last successful run.
func (c *WeatherChecker) LastRun() (weather.Run, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return weather.Run{}, false
	}
	return *c.last, true
}

// Close releases the checker. It is safe to call more than once.
func (c *WeatherChecker) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.progress = nil
	return nil
}

type outcome struct {
	run weather.Run
	err error
}

// Run executes resolve, fetch and normalize and blocks until they finish.
// The terminal progress notification is sent even when the run fails.
func (c *WeatherChecker) Run(ctx context.Context, params string, tree *TreeParameters, event *TreeEvent) (Logical, error) {
	_, result, err := c.RunRecord(ctx, params, tree, event)
	return result, err
}

// RunRecord is Run that also returns the run it executed.
func (c *WeatherChecker) RunRecord(ctx context.Context, params string, tree *TreeParameters, event *TreeEvent) (weather.Run, Logical, error) {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return weather.Run{}, LogicalNull, ErrClosed
	}
	c.result = nil
	c.mu.Unlock()

	runID := uuid.NewString()
	log.Printf("INFO: checker run %s started (params=%q%s)", runID, params, describe(tree, event))

	c.notify(ProgressStart)
	defer c.notify(ProgressDone)

	done := make(chan outcome, 1)
	go func() {
		run, err := c.pipeline(ctx, runID)
		done <- outcome{run: run, err: err}
	}()
	c.notify(ProgressWorking)

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = ctx.Err()
	}

	if out.err != nil {
		log.Printf("ERROR: checker run %s failed: %v", runID, out.err)
		return weather.Run{}, LogicalNull, out.err
	}

	c.mu.Lock()
	c.result = out.run.Report
	c.last = &out.run
	c.mu.Unlock()

	log.Printf("INFO: checker run %s finished with %d records", runID, out.run.Report.RecordCount())
	return out.run, LogicalTrue, nil
}

func (c *WeatherChecker) pipeline(ctx context.Context, runID string) (weather.Run, error) {
	res := c.resolver.Resolve(ctx)
	log.Printf("DEBUG: checker run %s using location from %s: %s", runID, res.Source, res.Location)

	report, err := c.forecaster.Forecast(ctx, res.Location)
	if err != nil {
		return weather.Run{}, fmt.Errorf("run %s: %w", runID, err)
	}

	return weather.Run{
		ID:       runID,
		Source:   res.Source,
		Provider: c.forecaster.ProviderName(),
		Report:   report,
		Finished: time.Now().UTC(),
	}, nil
}

func (c *WeatherChecker) notify(percent int) {
	c.mu.RLock()
	fn := c.progress
	c.mu.RUnlock()
	if fn != nil {
		fn(percent)
	}
}

func describe(tree *TreeParameters, event *TreeEvent) string {
	var s string
	if tree != nil && tree.NodeID != "" {
		s += ", node=" + tree.NodeID
	}
	if event != nil && event.Name != "" {
		s += ", event=" + event.Name
	}
	return s
}
