package health

import (
	"context"
	"sync"
	"time"

	"github.com/maldrake/boltpool/pkg/logger"
	"github.com/maldrake/boltpool/pkg/manager"
)

// DefaultInterval is how often the monitor sweeps idle connections.
const DefaultInterval = 30 * time.Second

// Monitor periodically validates the idle connections of every registered
// endpoint, destroying the ones that fail their probe and recording the
// results in a Checker.
type Monitor struct {
	registry *manager.Registry
	checker  *Checker
	interval time.Duration
	logger   *logger.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewMonitor creates a monitor over the registry. A zero interval means
// DefaultInterval.
func NewMonitor(registry *manager.Registry, checker *Checker, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		registry: registry,
		checker:  checker,
		interval: interval,
	}
}

// SetLogger sets the logger for the monitor.
func (m *Monitor) SetLogger(l *logger.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = l
}

// Checker returns the checker the monitor records into.
func (m *Monitor) Checker() *Checker {
	return m.checker
}

// Start launches the background sweep loop. It returns immediately; the loop
// stops when ctx is canceled or Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep(ctx)
			}
		}
	}()
}

// Stop halts the sweep loop and waits for it to finish.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel, done := m.cancel, m.done
	m.running = false
	m.mu.Unlock()

	cancel()
	<-done
}

// Sweep validates the idle connections of every registered endpoint once.
// Checked-out connections are left alone; the pool's caller owns those.
func (m *Monitor) Sweep(ctx context.Context) {
	for _, id := range m.registry.List() {
		id := id
		m.checker.RunCheck(id, func() error {
			return m.sweepEndpoint(ctx, id)
		})
	}
}

// sweepEndpoint probes each idle connection of one endpoint, destroys the
// stale ones, and reports the first validation failure it saw.
func (m *Monitor) sweepEndpoint(ctx context.Context, id string) error {
	pool, err := m.registry.Get(id)
	if err != nil {
		return err
	}

	var firstErr error
	stale := 0
	for _, res := range pool.AcquireAllIdle() {
		if err := pool.Manager().ValidateConnection(ctx, res.Value()); err != nil {
			res.Destroy()
			stale++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		res.ReleaseUnused()
	}

	if stale > 0 {
		m.safeLog("warn", "Endpoint %s: destroyed %d stale connection(s): %v", id, stale, firstErr)
	}
	return firstErr
}

// safeLog logs through the configured logger, if any.
func (m *Monitor) safeLog(level string, format string, args ...interface{}) {
	m.mu.Lock()
	l := m.logger
	m.mu.Unlock()
	if l == nil {
		return
	}
	switch level {
	case "info":
		l.Info(format, args...)
	case "warn":
		l.Warn(format, args...)
	case "error":
		l.Error(format, args...)
	}
}
