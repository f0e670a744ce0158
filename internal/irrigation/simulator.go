package irrigation

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"agri-backend/internal/shared/telemetry"
)

const DefaultInterval = 3 * time.Second

// Simulator owns the latest sensor reading and advances it on a ticker.
// Readers never block the ticker for longer than a copy.
type Simulator struct {
	interval time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	rnd     *rand.Rand
	current Reading
}

// NewSimulator builds a simulator seeded with seed. A non-positive interval
// means DefaultInterval.
func NewSimulator(interval time.Duration, seed uint64) *Simulator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Simulator{
		interval: interval,
		now:      time.Now,
		rnd:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		current:  InitialReading(time.Now().UTC()),
	}
}

// Current returns the latest reading.
func (s *Simulator) Current() Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Tick advances the reading once and returns it.
func (s *Simulator) Tick() Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := Step(s.current, s.rnd)
	next.At = s.now().UTC()
	s.current = next
	return next
}

// Run ticks until ctx is done. It blocks; callers start it in a goroutine.
func (s *Simulator) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	telemetry.Info("irrigation.simulator.start", map[string]any{"interval_ms": s.interval.Milliseconds()})
	for {
		select {
		case <-ctx.Done():
			telemetry.Info("irrigation.simulator.stop", nil)
			return ctx.Err()
		case <-ticker.C:
			s.Tick()
		}
	}
}
