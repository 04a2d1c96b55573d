// Package manager implements the connection-manager adapter between the Bolt
// protocol client and a generic resource pool: it creates, validates, and
// disposes of connections to one remote endpoint on the pool's behalf.
package manager

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/config"

	"github.com/maldrake/boltpool/pkg/bolt"
	"github.com/maldrake/boltpool/pkg/logger"
)

// livenessProbe is the statement run against a connection to verify it is
// usable, both right after creation and on every validation.
const livenessProbe = "RETURN 1"

// Manager produces and tears down Bolt connections for a pool. It holds
// exactly one set of connection parameters for its entire lifetime and no
// other mutable state, so its operations are safe to call concurrently.
type Manager struct {
	params   *bolt.ConnParams
	driver   neo4j.DriverWithContext
	database string
	logger   *logger.Logger

	// newSession is the seam between the manager and the upstream driver.
	newSession func(ctx context.Context) Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger attaches a logger. Without one the manager stays silent.
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithDatabase pins created connections to a named database instead of the
// server default.
func WithDatabase(name string) Option {
	return func(m *Manager) { m.database = name }
}

// WithSessionFactory replaces how the manager opens sessions. Intended for
// instrumentation and tests; the default factory goes through the driver.
func WithSessionFactory(f func(ctx context.Context) Session) Option {
	return func(m *Manager) { m.newSession = f }
}

// New creates a Manager for the given connection parameters. The underlying
// driver is constructed here but no network I/O happens until the pool asks
// for a connection.
func New(params *bolt.ConnParams, opts ...Option) (*Manager, error) {
	if params == nil {
		return nil, bolt.NewConnectionError("new", "", bolt.CategoryMetadata, bolt.ErrInvalidMetadata)
	}

	metadata := params.Metadata()
	auth, err := metadata.AuthToken()
	if err != nil {
		return nil, bolt.NewConnectionError("new", params.Address(), bolt.CategoryMetadata, err)
	}

	driver, err := neo4j.NewDriverWithContext(params.URI(), auth, func(c *config.Config) {
		c.UserAgent = metadata.UserAgent()
		c.SocketConnectTimeout = 10 * time.Second
	})
	if err != nil {
		return nil, bolt.WrapError("new", params.Address(), err)
	}

	m := &Manager{
		params: params,
		driver: driver,
	}
	m.newSession = func(ctx context.Context) Session {
		return m.driver.NewSession(ctx, neo4j.SessionConfig{
			AccessMode:   neo4j.AccessModeWrite,
			DatabaseName: m.database,
		})
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Params returns the connection parameters this manager was built with.
func (m *Manager) Params() *bolt.ConnParams {
	return m.params
}

// CreateConnection opens a new connection to the configured endpoint,
// authenticates it, and verifies the negotiated protocol version against the
// preference list. The returned connection belongs to the caller.
func (m *Manager) CreateConnection(ctx context.Context) (*Conn, error) {
	addr := m.params.Address()
	sess := m.newSession(ctx)

	result, err := sess.Run(ctx, livenessProbe, nil)
	if err != nil {
		_ = sess.Close(ctx)
		wrapped := bolt.WrapError("create", addr, err)
		m.safeLog("error", "Failed to connect to %s: %v", addr, wrapped)
		return nil, wrapped
	}

	summary, err := result.Consume(ctx)
	if err != nil {
		_ = sess.Close(ctx)
		wrapped := bolt.WrapError("create", addr, err)
		m.safeLog("error", "Failed to connect to %s: %v", addr, wrapped)
		return nil, wrapped
	}

	server := summary.Server()
	pv := server.ProtocolVersion()
	negotiated := bolt.Version{Major: pv.Major, Minor: pv.Minor}
	if !m.params.Versions().Accepts(negotiated) {
		_ = sess.Close(ctx)
		err := bolt.NewConnectionError("create", addr, bolt.CategoryVersion, bolt.ErrVersionNegotiation)
		m.safeLog("error", "Server %s negotiated unacceptable protocol version %s (want %s)", addr, negotiated, m.params.Versions())
		return nil, err
	}

	conn := &Conn{
		id:       uuid.NewString(),
		address:  addr,
		session:  sess,
		agent:    server.Agent(),
		protocol: negotiated,
	}
	m.safeLog("debug", "Created connection %s to %s (%s, bolt %s)", conn.id, addr, conn.agent, negotiated)
	return conn, nil
}

// ValidateConnection probes an existing connection and reports whether it is
// still usable. A connection whose socket has died comes back as a
// health-check failure, never as an unrelated error.
func (m *Manager) ValidateConnection(ctx context.Context, conn *Conn) error {
	addr := m.params.Address()
	if conn == nil || !conn.IsOpen() {
		return bolt.NewConnectionError("validate", addr, bolt.CategoryHealthCheck, bolt.ErrConnectionClosed)
	}

	result, err := conn.session.Run(ctx, livenessProbe, nil)
	if err != nil {
		return m.validateError(addr, err)
	}
	if _, err := result.Consume(ctx); err != nil {
		return m.validateError(addr, err)
	}
	return nil
}

// validateError keeps authentication rejections distinct but folds everything
// else into the health-check category, since the connection under test is the
// thing being judged.
func (m *Manager) validateError(addr string, err error) error {
	category := bolt.Classify(err)
	if category != bolt.CategoryAuthentication {
		category = bolt.CategoryHealthCheck
	}
	wrapped := bolt.NewConnectionError("validate", addr, category, err)
	m.safeLog("warn", "Connection to %s failed validation: %v", addr, wrapped)
	return wrapped
}

// DisposeConnection releases a connection's underlying resources. Disposal is
// best-effort cleanup: failures are logged, never propagated, and disposing
// the same connection twice is harmless.
func (m *Manager) DisposeConnection(ctx context.Context, conn *Conn) {
	if conn == nil {
		return
	}
	if err := conn.close(ctx); err != nil {
		m.safeLog("warn", "Error closing connection %s to %s: %v", conn.id, m.params.Address(), err)
		return
	}
	m.safeLog("debug", "Disposed connection %s", conn.id)
}

// Close shuts down the underlying driver. Connections already handed to the
// pool must be disposed separately.
func (m *Manager) Close(ctx context.Context) error {
	return m.driver.Close(ctx)
}

// safeLog logs through the configured logger, if any.
func (m *Manager) safeLog(level string, format string, args ...interface{}) {
	if m.logger == nil {
		return
	}
	switch level {
	case "debug":
		m.logger.Debug(format, args...)
	case "info":
		m.logger.Info(format, args...)
	case "warn":
		m.logger.Warn(format, args...)
	case "error":
		m.logger.Error(format, args...)
	}
}
