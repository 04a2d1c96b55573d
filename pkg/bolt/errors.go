package bolt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// Standard adapter errors
var (
	// ErrConnectionFailed is returned when the endpoint cannot be reached
	ErrConnectionFailed = errors.New("connection failed")

	// ErrVersionNegotiation is returned when handshake version negotiation fails
	ErrVersionNegotiation = errors.New("protocol version negotiation failed")

	// ErrAuthenticationFailed is returned when the server rejects the credentials
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrHealthCheckFailed is returned when a liveness probe on an existing connection fails
	ErrHealthCheckFailed = errors.New("health check failed")

	// ErrInvalidMetadata is returned when the handshake metadata is malformed
	ErrInvalidMetadata = errors.New("invalid connection metadata")

	// ErrConnectionClosed is returned when attempting to use a closed connection
	ErrConnectionClosed = errors.New("connection is closed")
)

// Category buckets a ConnectionError by what went wrong.
type Category string

const (
	CategoryNetwork        Category = "network"
	CategoryVersion        Category = "version"
	CategoryAuthentication Category = "authentication"
	CategoryHealthCheck    Category = "health_check"
	CategoryMetadata       Category = "metadata"
)

// sentinel returns the sentinel error matching the category.
func (c Category) sentinel() error {
	switch c {
	case CategoryNetwork:
		return ErrConnectionFailed
	case CategoryVersion:
		return ErrVersionNegotiation
	case CategoryAuthentication:
		return ErrAuthenticationFailed
	case CategoryHealthCheck:
		return ErrHealthCheckFailed
	case CategoryMetadata:
		return ErrInvalidMetadata
	default:
		return ErrConnectionFailed
	}
}

// ConnectionError wraps failures of the adapter's operations with the endpoint
// and the failure category. This is the only error type the pool sees.
type ConnectionError struct {
	Address  string
	Op       string
	Category Category
	Cause    error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("bolt %s %s: %s: %v", e.Op, e.Address, e.Category, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// Is matches both the category sentinel and the wrapped cause.
func (e *ConnectionError) Is(target error) bool {
	if errors.Is(e.Category.sentinel(), target) {
		return true
	}
	return errors.Is(e.Cause, target)
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(op, address string, category Category, cause error) *ConnectionError {
	return &ConnectionError{
		Address:  address,
		Op:       op,
		Category: category,
		Cause:    cause,
	}
}

// WrapError wraps an upstream driver error with operation context, classifying
// it into a category. Errors that are already ConnectionErrors pass through.
func WrapError(op, address string, err error) error {
	if err == nil {
		return nil
	}

	// Don't double-wrap
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return err
	}

	return NewConnectionError(op, address, Classify(err), err)
}

// Classify maps an upstream driver error onto an adapter error category.
// Authentication rejections are recognized by the server's security error
// codes, connectivity problems by the driver's own connectivity error type.
func Classify(err error) Category {
	var dbErr *db.Neo4jError
	if errors.As(err, &dbErr) {
		if strings.HasPrefix(dbErr.Code, "Neo.ClientError.Security.") {
			return CategoryAuthentication
		}
		return CategoryHealthCheck
	}
	if errors.Is(err, ErrInvalidMetadata) {
		return CategoryMetadata
	}
	if errors.Is(err, ErrVersionNegotiation) {
		return CategoryVersion
	}
	if neo4j.IsConnectivityError(err) {
		return CategoryNetwork
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryNetwork
	}
	return CategoryNetwork
}

// IsNetworkError checks if an error is a network-category failure.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrConnectionFailed)
}

// IsVersionError checks if an error is a version-negotiation failure.
func IsVersionError(err error) bool {
	return errors.Is(err, ErrVersionNegotiation)
}

// IsAuthenticationError checks if an error is an authentication rejection.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed)
}

// IsHealthCheckError checks if an error is a failed liveness probe.
func IsHealthCheckError(err error) bool {
	return errors.Is(err, ErrHealthCheckFailed)
}

// IsMetadataError checks if an error is a metadata/configuration problem.
func IsMetadataError(err error) bool {
	return errors.Is(err, ErrInvalidMetadata)
}
