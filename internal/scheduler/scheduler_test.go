package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/weather-checker/internal/checker"
	"github.com/i474232898/weather-checker/internal/geolocation"
	"github.com/i474232898/weather-checker/internal/store"
	"github.com/i474232898/weather-checker/internal/weather"
)

type fakeRunner struct {
	mu     sync.Mutex
	calls  int
	err    error
	events []string
}

func (f *fakeRunner) RunRecord(ctx context.Context, params string, tree *checker.TreeParameters, event *checker.TreeEvent) (weather.Run, checker.Logical, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.events = append(f.events, event.Name)
	if f.err != nil {
		return weather.Run{}, checker.LogicalNull, f.err
	}
	return weather.Run{ID: "run", Report: weather.NewReport(time.Now()), Finished: time.Now()}, checker.LogicalTrue, nil
}

func (f *fakeRunner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestTriggerSavesRun(t *testing.T) {
	runner := &fakeRunner{}
	mem := store.NewMemoryStore(0, 0)
	s := New(runner, mem, time.Hour)

	run, err := s.Trigger(context.Background(), "manual")
	if err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if run.ID != "run" {
		t.Errorf("Trigger().ID = %s, want run", run.ID)
	}
	if mem.Len() != 1 {
		t.Errorf("store holds %d runs, want 1", mem.Len())
	}
	if runner.events[0] != "manual" {
		t.Errorf("event = %s, want manual", runner.events[0])
	}
}

func TestTriggerFailureIsNotSaved(t *testing.T) {
	runner := &fakeRunner{err: weather.ErrUnknownWeatherCode}
	mem := store.NewMemoryStore(0, 0)
	s := New(runner, mem, time.Hour)

	if _, err := s.Trigger(context.Background(), "manual"); !errors.Is(err, weather.ErrUnknownWeatherCode) {
		t.Fatalf("Trigger() error = %v, want ErrUnknownWeatherCode", err)
	}
	if mem.Len() != 0 {
		t.Errorf("store holds %d runs, want 0", mem.Len())
	}
}

func TestStartRunsImmediately(t *testing.T) {
	runner := &fakeRunner{}
	mem := store.NewMemoryStore(0, 0)
	s := New(runner, mem, time.Hour)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for runner.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if runner.count() == 0 {
		t.Fatal("scheduled job did not run")
	}
}

type fixedResolver struct{}

func (fixedResolver) Resolve(ctx context.Context) geolocation.Resolution {
	return geolocation.Resolution{Location: geolocation.DefaultLocation, Source: geolocation.DefaultSource}
}

type emptyForecaster struct{}

func (emptyForecaster) ProviderName() string { return "stub" }

func (emptyForecaster) Forecast(ctx context.Context, loc weather.Location) (*weather.Report, error) {
	return weather.NewReport(time.Now()), nil
}

// overlappingRunner starts a second trigger after its first run completes
// but before that run is handed back.
type overlappingRunner struct {
	inner *checker.WeatherChecker
	sched *Scheduler
	once  sync.Once
	err   error
}

func (o *overlappingRunner) RunRecord(ctx context.Context, params string, tree *checker.TreeParameters, event *checker.TreeEvent) (weather.Run, checker.Logical, error) {
	run, result, err := o.inner.RunRecord(ctx, params, tree, event)
	o.once.Do(func() {
		_, o.err = o.sched.Trigger(ctx, "api")
	})
	return run, result, err
}

func TestOverlappingTriggersSaveEachRun(t *testing.T) {
	mem := store.NewMemoryStore(0, 0)
	runner := &overlappingRunner{inner: checker.New(fixedResolver{}, emptyForecaster{})}
	s := New(runner, mem, time.Hour)
	runner.sched = s

	first, err := s.Trigger(context.Background(), "scheduled")
	if err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if runner.err != nil {
		t.Fatalf("overlapping Trigger() error = %v", runner.err)
	}

	runs, err := mem.GetRange(time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("GetRange() error = %v", err)
	}
	ids := make(map[string]int)
	for _, r := range runs {
		ids[r.ID]++
	}
	if len(runs) != 2 || len(ids) != 2 {
		t.Fatalf("store holds %d runs with %d distinct IDs, want 2 and 2: %v", len(runs), len(ids), ids)
	}
	if ids[first.ID] != 1 {
		t.Errorf("first run %s stored %d times, want 1", first.ID, ids[first.ID])
	}
}
