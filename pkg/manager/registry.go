package manager

import (
	"context"
	"fmt"
	"sync"

	"github.com/maldrake/boltpool/pkg/logger"
)

// Registry tracks pooled endpoints by name for processes that talk to more
// than one database. It only handles lifecycle; all connection behavior stays
// with the managers.
type Registry struct {
	mu        sync.RWMutex
	endpoints map[string]*Pool
	logger    *logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		endpoints: make(map[string]*Pool),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(l *logger.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = l
}

// Register creates a pool for the manager and stores it under id. Registering
// an id twice replaces the previous pool, closing it first.
func (r *Registry) Register(id string, m *Manager, maxSize int32) (*Pool, error) {
	pool, err := NewPool(m, maxSize)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	old, existed := r.endpoints[id]
	r.endpoints[id] = pool
	r.mu.Unlock()

	if existed {
		r.safeLog("warn", "Replacing registered endpoint %s", id)
		old.Close()
	}
	r.safeLog("info", "Registered endpoint %s (%s, max %d connections)", id, m.Params().Address(), maxSize)
	return pool, nil
}

// Get retrieves a registered pool by id.
func (r *Registry) Get(id string) (*Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pool, exists := r.endpoints[id]
	if !exists {
		return nil, fmt.Errorf("endpoint not found: %s", id)
	}
	return pool, nil
}

// List returns the ids of all registered endpoints.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.endpoints))
	for id := range r.endpoints {
		ids = append(ids, id)
	}
	return ids
}

// CheckHealth acquires a connection from the endpoint's pool, validates it,
// and returns it. The validation error, if any, is surfaced as-is.
func (r *Registry) CheckHealth(ctx context.Context, id string) error {
	pool, err := r.Get(id)
	if err != nil {
		return err
	}

	res, err := pool.AcquireWithValidation(ctx)
	if err != nil {
		r.safeLog("error", "Health check failed for endpoint %s: %v", id, err)
		return err
	}
	res.Release()
	return nil
}

// Unregister closes and removes an endpoint's pool.
func (r *Registry) Unregister(ctx context.Context, id string) error {
	r.mu.Lock()
	pool, exists := r.endpoints[id]
	if exists {
		delete(r.endpoints, id)
	}
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("endpoint not found: %s", id)
	}

	pool.Close()
	if err := pool.Manager().Close(ctx); err != nil {
		r.safeLog("error", "Error closing manager for endpoint %s: %v", id, err)
		return err
	}
	r.safeLog("info", "Unregistered endpoint %s", id)
	return nil
}

// CloseAll closes every registered pool and manager.
func (r *Registry) CloseAll(ctx context.Context) error {
	r.mu.Lock()
	endpoints := r.endpoints
	r.endpoints = make(map[string]*Pool)
	r.mu.Unlock()

	r.safeLog("info", "Closing all endpoints")

	var errs []error
	for id, pool := range endpoints {
		pool.Close()
		if err := pool.Manager().Close(ctx); err != nil {
			r.safeLog("error", "Error closing manager for endpoint %s: %v", id, err)
			errs = append(errs, fmt.Errorf("failed to close %s: %w", id, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}

// safeLog logs through the configured logger, if any.
func (r *Registry) safeLog(level string, format string, args ...interface{}) {
	r.mu.RLock()
	l := r.logger
	r.mu.RUnlock()
	if l == nil {
		return
	}
	switch level {
	case "debug":
		l.Debug(format, args...)
	case "info":
		l.Info(format, args...)
	case "warn":
		l.Warn(format, args...)
	case "error":
		l.Error(format, args...)
	}
}
