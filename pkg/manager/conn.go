package manager

import (
	"context"
	"sync/atomic"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/maldrake/boltpool/pkg/bolt"
)

// Session is the slice of the upstream session contract the adapter uses.
// neo4j.SessionWithContext satisfies it; instrumentation and tests can supply
// their own via WithSessionFactory.
type Session interface {
	Run(ctx context.Context, cypher string, params map[string]any, configurers ...func(*neo4j.TransactionConfig)) (neo4j.ResultWithContext, error)
	Close(ctx context.Context) error
}

// Conn is a managed connection: one open session to the remote database,
// created by a Manager and owned by the pool from then on.
type Conn struct {
	id       string
	address  string
	session  Session
	agent    string
	protocol bolt.Version
	closed   int32
}

// ID returns the unique identifier assigned at creation.
func (c *Conn) ID() string { return c.id }

// Address returns the endpoint this connection talks to.
func (c *Conn) Address() string { return c.address }

// ServerAgent returns the server agent string reported during creation.
func (c *Conn) ServerAgent() string { return c.agent }

// ProtocolVersion returns the Bolt version negotiated for this connection.
func (c *Conn) ProtocolVersion() bolt.Version { return c.protocol }

// IsOpen reports whether the connection has not been disposed.
func (c *Conn) IsOpen() bool { return atomic.LoadInt32(&c.closed) == 0 }

// Run executes a statement on the connection's session.
func (c *Conn) Run(ctx context.Context, cypher string, params map[string]any) (neo4j.ResultWithContext, error) {
	if !c.IsOpen() {
		return nil, bolt.NewConnectionError("run", c.address, bolt.CategoryHealthCheck, bolt.ErrConnectionClosed)
	}
	result, err := c.session.Run(ctx, cypher, params)
	if err != nil {
		return nil, bolt.WrapError("run", c.address, err)
	}
	return result, nil
}

// Raw returns the underlying session object. Type assertion is required; use
// this only for operations the adapter does not cover.
func (c *Conn) Raw() interface{} { return c.session }

// close releases the underlying session. Safe to call more than once; only the
// first call reaches the session.
func (c *Conn) close(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	return c.session.Close(ctx)
}
