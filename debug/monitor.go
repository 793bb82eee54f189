// Package debug provides runtime monitoring and diagnostics.
package debug

import (
	"context"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/drake/chartform/session"
)

// Enabled returns true if debug mode is active (CHARTFORM_DEBUG=1).
func Enabled() bool {
	return os.Getenv("CHARTFORM_DEBUG") == "1"
}

// StatsSource is anything that reports session statistics.
type StatsSource interface {
	Stats() session.Stats
}

// Monitor periodically logs session statistics when debug mode is enabled.
type Monitor struct {
	source   StatsSource
	interval time.Duration
	ctx      context.Context
	logger   *log.Logger
}

// NewMonitor creates a new monitor for the given session.
// If debug mode is not enabled, returns nil.
func NewMonitor(ctx context.Context, s StatsSource, logger *log.Logger) *Monitor {
	if !Enabled() {
		return nil
	}
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	return &Monitor{
		source:   s,
		interval: 5 * time.Second,
		ctx:      ctx,
		logger:   logger,
	}
}

// Start begins the monitoring loop in a goroutine.
func (m *Monitor) Start() {
	if m == nil {
		return
	}
	go m.run()
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Println("[DEBUG] Monitor started")

	for {
		select {
		case <-m.ctx.Done():
			m.logger.Println("[DEBUG] Monitor stopped")
			return
		case <-ticker.C:
			m.logStats()
		}
	}
}

func (m *Monitor) logStats() {
	s := m.source.Stats()

	m.logger.Printf("[DEBUG] events=%d overflows=%d rejected=%d observers=%d goroutines=%d | form: layers=%d datasets=%d state=%s pending=%v",
		s.EventsProcessed,
		s.Overflows,
		s.Rejected,
		s.Observers,
		runtime.NumGoroutine(),
		s.Layers,
		s.Datasets,
		s.State,
		s.Pending,
	)
}
