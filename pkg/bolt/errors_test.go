package bolt

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionErrorIs(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewConnectionError("create", "localhost:7687", CategoryNetwork, cause)

	assert.ErrorIs(t, err, ErrConnectionFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrAuthenticationFailed)
}

func TestConnectionErrorMessage(t *testing.T) {
	err := NewConnectionError("validate", "localhost:7687", CategoryHealthCheck, ErrConnectionClosed)
	msg := err.Error()

	assert.Contains(t, msg, "validate")
	assert.Contains(t, msg, "localhost:7687")
	assert.Contains(t, msg, "health_check")
}

func TestWrapError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WrapError("create", "localhost:7687", nil))
	})

	t.Run("does not double-wrap", func(t *testing.T) {
		inner := NewConnectionError("create", "localhost:7687", CategoryNetwork, errors.New("refused"))
		wrapped := WrapError("create", "localhost:7687", inner)
		assert.Same(t, error(inner), wrapped)
	})

	t.Run("classifies while wrapping", func(t *testing.T) {
		err := WrapError("create", "localhost:7687", &db.Neo4jError{
			Code: "Neo.ClientError.Security.Unauthorized",
			Msg:  "unauthorized",
		})

		var connErr *ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, CategoryAuthentication, connErr.Category)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{
			name: "security code is authentication",
			err:  &db.Neo4jError{Code: "Neo.ClientError.Security.Unauthorized", Msg: "unauthorized"},
			want: CategoryAuthentication,
		},
		{
			name: "other server error is health check",
			err:  &db.Neo4jError{Code: "Neo.ClientError.Statement.SyntaxError", Msg: "bad query"},
			want: CategoryHealthCheck,
		},
		{
			name: "invalid metadata",
			err:  ErrInvalidMetadata,
			want: CategoryMetadata,
		},
		{
			name: "version negotiation",
			err:  ErrVersionNegotiation,
			want: CategoryVersion,
		},
		{
			name: "context deadline",
			err:  context.DeadlineExceeded,
			want: CategoryNetwork,
		},
		{
			name: "plain dial error",
			err:  errors.New("dial tcp: connection refused"),
			want: CategoryNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestCategoryHelpers(t *testing.T) {
	assert.True(t, IsNetworkError(NewConnectionError("create", "a:1", CategoryNetwork, errors.New("x"))))
	assert.True(t, IsVersionError(NewConnectionError("create", "a:1", CategoryVersion, errors.New("x"))))
	assert.True(t, IsAuthenticationError(NewConnectionError("create", "a:1", CategoryAuthentication, errors.New("x"))))
	assert.True(t, IsHealthCheckError(NewConnectionError("validate", "a:1", CategoryHealthCheck, errors.New("x"))))
	assert.True(t, IsMetadataError(NewConnectionError("new", "a:1", CategoryMetadata, errors.New("x"))))

	assert.False(t, IsAuthenticationError(NewConnectionError("create", "a:1", CategoryNetwork, errors.New("x"))))
}
