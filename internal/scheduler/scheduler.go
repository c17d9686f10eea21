package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-checker/internal/checker"
	"github.com/i474232898/weather-checker/internal/weather"
)

// RunTimeout bounds one scheduled checker run.
const RunTimeout = 30 * time.Second

// Runner is the part of the checker the scheduler drives.
type Runner interface {
	RunRecord(ctx context.Context, params string, tree *checker.TreeParameters, event *checker.TreeEvent) (weather.Run, checker.Logical, error)
}

// Scheduler periodically runs the checker and records each result.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	store     weather.Store
	interval  time.Duration
}

// New creates a new Scheduler.
func New(runner Runner, store weather.Store, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		runner:    runner,
		store:     store,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(func() {
		log.Println("scheduler: running weather check job")

		ctx, cancel := context.WithTimeout(context.Background(), RunTimeout)
		defer cancel()

		if _, err := s.Trigger(ctx, "scheduled"); err != nil {
			log.Printf("scheduler: weather check failed: %v", err)
			return
		}
		log.Println("scheduler: completed weather check job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Trigger runs the checker once and saves the run in the store.
func (s *Scheduler) Trigger(ctx context.Context, reason string) (weather.Run, error) {
	event := &checker.TreeEvent{Name: reason, Occurred: time.Now().UTC()}
	run, _, err := s.runner.RunRecord(ctx, "", nil, event)
	if err != nil {
		return weather.Run{}, fmt.Errorf("%s check: %w", reason, err)
	}
	s.store.SaveRun(run)
	return run, nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
