// Package schedule runs recurring background tasks on fixed intervals.
//
// The daemon registers its periodic work here — cart refresh, export cleanup —
// and starts the dispatcher once at boot:
//
//	schedule.Every(30*time.Second).Name("cart-refresh").Run(refresh)
//	schedule.Start(ctx)
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/bazario/pkg/logger"
)

// Task is the function signature for a scheduled task.
type Task func()

// entry represents a single scheduled job.
type entry struct {
	id       string
	interval time.Duration
	task     Task
	lastRun  time.Time
	running  bool // overlap guard
	mu       sync.Mutex
}

// Schedule is a fluent builder for a single entry before it is registered.
type Schedule struct {
	e *entry
}

var (
	regMu   sync.Mutex
	entries []*entry
)

// Every starts a builder for a task running on the given interval.
// The first run happens on the first tick after Start.
func Every(interval time.Duration) *Schedule {
	return &Schedule{e: &entry{interval: interval}}
}

// Name gives the entry a human-readable identifier for logging.
func (s *Schedule) Name(id string) *Schedule {
	s.e.id = id
	return s
}

// Run registers the task. Call Start to begin dispatching.
func (s *Schedule) Run(fn Task) {
	s.e.task = fn
	regMu.Lock()
	if s.e.id == "" {
		s.e.id = fmt.Sprintf("task-%d", len(entries)+1)
	}
	entries = append(entries, s.e)
	regMu.Unlock()
}

// Flush drops all registered entries (tests).
func Flush() {
	regMu.Lock()
	entries = nil
	regMu.Unlock()
}

// Start begins the dispatch loop in the background. It ticks every second
// and runs entries whose interval has elapsed, skipping an entry while its
// previous run is still executing.
func Start(ctx context.Context) {
	go run(ctx)
	logger.Info("schedule: dispatcher started")
}

func run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("schedule: dispatcher stopped")
			return
		case now := <-ticker.C:
			regMu.Lock()
			current := make([]*entry, len(entries))
			copy(current, entries)
			regMu.Unlock()

			for _, e := range current {
				if e.due(now) {
					e.dispatch()
				}
			}
		}
	}
}

func (e *entry) due(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastRun.IsZero() {
		return true
	}
	return now.Sub(e.lastRun) >= e.interval
}

func (e *entry) dispatch() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping run", "id", e.id)
		return
	}
	e.running = true
	e.lastRun = time.Now()
	e.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "id", e.id, "panic", r)
			}
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
		}()
		e.task()
	}()
}
