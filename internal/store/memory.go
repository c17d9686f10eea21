package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-checker/internal/weather"
)

var (
	// ErrNotFound is returned when no run matches the query.
	ErrNotFound = errors.New("no checker runs recorded")
)

// MemoryStore is a concurrency-safe in-memory history of checker runs,
// ordered by finish time.
type MemoryStore struct {
	mu   sync.RWMutex
	runs []weather.Run

	// retention configuration
	maxHistory int           // max number of runs kept
	maxAge     time.Duration // optional max age for runs

	now func() time.Time
}

var _ weather.Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveRun records a finished run and enforces retention.
func (s *MemoryStore) SaveRun(run weather.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep runs sorted even if a slow run finishes after a newer one was saved.
	i := sort.Search(len(s.runs), func(i int) bool { return s.runs[i].Finished.After(run.Finished) })
	s.runs = append(s.runs, weather.Run{})
	copy(s.runs[i+1:], s.runs[i:])
	s.runs[i] = run

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.runs) > s.maxHistory {
		s.runs = s.runs[len(s.runs)-s.maxHistory:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for i < len(s.runs) && s.runs[i].Finished.Before(cutoff) {
			i++
		}
		s.runs = s.runs[i:]
	}
}

// GetLatest returns the most recently finished run.
func (s *MemoryStore) GetLatest() (weather.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.runs) == 0 {
		return weather.Run{}, ErrNotFound
	}
	return s.runs[len(s.runs)-1], nil
}

// GetRange returns all runs finished between from and to (inclusive).
func (s *MemoryStore) GetRange(from, to time.Time) ([]weather.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []weather.Run
	for _, run := range s.runs {
		if !run.Finished.Before(from) && !run.Finished.After(to) {
			result = append(result, run)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// Len returns the number of runs held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
