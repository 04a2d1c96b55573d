package manager

import (
	"context"

	"github.com/jackc/puddle/v2"
)

// Pool wires a Manager into the generic resource pool. Sizing, backpressure,
// and acquisition timeouts all belong to the pool and its caller; the adapter
// only supplies the constructor and destructor.
type Pool struct {
	manager *Manager
	pool    *puddle.Pool[*Conn]
}

// NewPool builds a pool of at most maxSize connections produced by m.
func NewPool(m *Manager, maxSize int32) (*Pool, error) {
	p, err := puddle.NewPool(&puddle.Config[*Conn]{
		Constructor: func(ctx context.Context) (*Conn, error) {
			return m.CreateConnection(ctx)
		},
		Destructor: func(conn *Conn) {
			m.DisposeConnection(context.Background(), conn)
		},
		MaxSize: maxSize,
	})
	if err != nil {
		return nil, err
	}
	return &Pool{manager: m, pool: p}, nil
}

// Manager returns the connection manager backing this pool.
func (p *Pool) Manager() *Manager {
	return p.manager
}

// Acquire returns a pooled connection, creating one if the pool has capacity.
// Release the resource when done; Destroy it if the connection misbehaved.
func (p *Pool) Acquire(ctx context.Context) (*puddle.Resource[*Conn], error) {
	return p.pool.Acquire(ctx)
}

// AcquireWithValidation acquires a connection and probes it before handing it
// over. An unhealthy connection is destroyed and the validation error is
// returned; deciding whether to try again is the caller's policy.
func (p *Pool) AcquireWithValidation(ctx context.Context) (*puddle.Resource[*Conn], error) {
	res, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.manager.ValidateConnection(ctx, res.Value()); err != nil {
		res.Destroy()
		return nil, err
	}
	return res, nil
}

// AcquireAllIdle returns every idle connection in the pool. Used by the
// health monitor to validate connections that are not checked out.
func (p *Pool) AcquireAllIdle() []*puddle.Resource[*Conn] {
	return p.pool.AcquireAllIdle()
}

// Stat returns the pool's own statistics.
func (p *Pool) Stat() *puddle.Stat {
	return p.pool.Stat()
}

// Close destroys all idle connections and blocks new acquisitions. The
// manager itself stays usable until its own Close.
func (p *Pool) Close() {
	p.pool.Close()
}
