// Package fleet provides the mock fleet shown on the dashboard: stations, bikes and live counters.
package fleet

import (
	"math/rand/v2"
	"sync"
	"time"
)

// MinTotal is the lowest value the total bike counter drifts to.
const MinTotal = 840

// Stats are the live fleet counters.
type Stats struct {
	Total     int       `json:"total"`
	Rented    int       `json:"rented"`
	Available int       `json:"available"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Rand is the random source used by the simulator.
type Rand interface {
	IntN(n int) int
}

// Simulator randomizes the fleet counters on every tick.
type Simulator struct {
	mu    sync.RWMutex
	stats Stats
	rand  Rand
	now   func() time.Time
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithRand sets the random source.
func WithRand(r Rand) Option {
	return func(s *Simulator) {
		s.rand = r
	}
}

// WithClock sets the function used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) {
		s.now = now
	}
}

// NewSimulator creates a simulator starting from the given counters.
func NewSimulator(initialTotal, initialRented int, opts ...Option) *Simulator {
	s := &Simulator{
		rand: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stats = Stats{
		Total:     initialTotal,
		Rented:    initialRented,
		Available: max(0, initialTotal-initialRented),
		UpdatedAt: s.now(),
	}
	return s
}

// Tick advances the counters and returns the new snapshot.
func (s *Simulator) Tick() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats = Stats{
		Total:     max(MinTotal, s.stats.Total+s.rand.IntN(3)-1),
		Rented:    300 + s.rand.IntN(400),
		Available: 200 + s.rand.IntN(600),
		UpdatedAt: s.now(),
	}
	return s.stats
}

// Snapshot returns the current counters.
func (s *Simulator) Snapshot() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}
