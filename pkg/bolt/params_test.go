package bolt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParams(t *testing.T) {
	validMeta := Metadata{MetaScheme: SchemeNone}

	t.Run("valid", func(t *testing.T) {
		params, err := NewParams("db.example.com:7687", "", VersionPreference{}, validMeta)
		require.NoError(t, err)
		assert.Equal(t, "db.example.com:7687", params.Address())
		assert.False(t, params.Secure())
		assert.True(t, params.Versions().IsEmpty())
	})

	t.Run("missing port is rejected", func(t *testing.T) {
		_, err := NewParams("db.example.com", "", VersionPreference{}, validMeta)
		assert.ErrorIs(t, err, ErrInvalidMetadata)
	})

	t.Run("empty address is rejected", func(t *testing.T) {
		_, err := NewParams("", "", VersionPreference{}, validMeta)
		assert.ErrorIs(t, err, ErrInvalidMetadata)
	})

	t.Run("unsupported version preference is rejected", func(t *testing.T) {
		_, err := NewParams("localhost:7687", "", VersionPreference{V3_0}, validMeta)
		assert.ErrorIs(t, err, ErrVersionNegotiation)
	})

	t.Run("invalid metadata is rejected", func(t *testing.T) {
		_, err := NewParams("localhost:7687", "", VersionPreference{}, Metadata{MetaScheme: "ldap"})
		assert.ErrorIs(t, err, ErrInvalidMetadata)
	})
}

func TestParamsImmutability(t *testing.T) {
	input := Metadata{MetaScheme: SchemeBasic, MetaPrincipal: "neo4j", MetaCredentials: "secret"}
	params, err := NewParams("localhost:7687", "", VersionPreference{}, input)
	require.NoError(t, err)

	// Mutating the caller's map after construction changes nothing.
	input[MetaPrincipal] = "intruder"
	assert.Equal(t, "neo4j", params.Metadata()[MetaPrincipal])

	// Mutating the handed-out copy changes nothing either.
	out := params.Metadata()
	out[MetaPrincipal] = "intruder"
	assert.Equal(t, "neo4j", params.Metadata()[MetaPrincipal])
}

func TestParamsURI(t *testing.T) {
	tests := []struct {
		name    string
		address string
		domain  string
		want    string
	}{
		{"plaintext", "10.0.0.5:7687", "", "bolt://10.0.0.5:7687"},
		{"secure uses domain as host", "10.0.0.5:7687", "db.example.com", "bolt+s://db.example.com:7687"},
		{"secure with matching host", "db.example.com:9999", "db.example.com", "bolt+s://db.example.com:9999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := NewParams(tt.address, tt.domain, VersionPreference{}, Metadata{MetaScheme: SchemeNone})
			require.NoError(t, err)
			assert.Equal(t, tt.want, params.URI())
		})
	}
}

func TestParamsString(t *testing.T) {
	params, err := NewParams("localhost:7687", "", VersionPreference{}, Metadata{
		MetaScheme:      SchemeBasic,
		MetaPrincipal:   "neo4j",
		MetaCredentials: "hunter2",
	})
	require.NoError(t, err)

	s := params.String()
	assert.Contains(t, s, "bolt://localhost:7687")
	assert.NotContains(t, s, "hunter2")
}
