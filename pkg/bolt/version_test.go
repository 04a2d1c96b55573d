package bolt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionString(t *testing.T) {
	assert.Equal(t, "5.8", V5_8.String())
	assert.Equal(t, "4.3", V4_3.String())
}

func TestVersionSupported(t *testing.T) {
	assert.True(t, V5_0.Supported())
	assert.True(t, V4_4.Supported())
	assert.False(t, V3_0.Supported())
	assert.False(t, Version{Major: 9, Minor: 9}.Supported())
}

func TestPreferenceAccepts(t *testing.T) {
	tests := []struct {
		name     string
		prefs    VersionPreference
		version  Version
		accepted bool
	}{
		{"first slot", VersionPreference{V5_8, V5_4, V4_4, V4_3}, V5_8, true},
		{"last slot", VersionPreference{V5_8, V5_4, V4_4, V4_3}, V4_3, true},
		{"not listed", VersionPreference{V5_8, V5_4}, V4_4, false},
		{"zero slots are not matched", VersionPreference{V5_8}, Version{}, false},
		{"empty accepts any supported version", VersionPreference{}, V5_3, true},
		{"empty accepts the oldest supported version", VersionPreference{}, V4_3, true},
		{"empty rejects unsupported versions", VersionPreference{}, V3_0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.accepted, tt.prefs.Accepts(tt.version))
		})
	}
}

func TestPreferenceValidate(t *testing.T) {
	t.Run("supported version passes", func(t *testing.T) {
		assert.NoError(t, VersionPreference{V5_0}.Validate())
	})

	t.Run("mixed list passes when one is supported", func(t *testing.T) {
		assert.NoError(t, VersionPreference{V3_0, V4_4}.Validate())
	})

	t.Run("empty preference is valid", func(t *testing.T) {
		assert.NoError(t, VersionPreference{}.Validate())
	})

	t.Run("only unsupported versions fails", func(t *testing.T) {
		err := VersionPreference{V3_0}.Validate()
		assert.ErrorIs(t, err, ErrVersionNegotiation)
	})
}

func TestPreferenceString(t *testing.T) {
	assert.Equal(t, "5.8, 4.4", VersionPreference{V5_8, V4_4}.String())
	assert.Equal(t, "(any supported)", VersionPreference{}.String())
}
