package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	dErrors "gesclient/pkg/domain-errors"
)

// TestParseID_Invariants validates the parsing invariant:
// "ids must be non-empty, non-zero 24-char hex ObjectIDs"
func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseID("not-an-object-id")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects zero ObjectID", func(t *testing.T) {
		_, err := ParseID(primitive.NilObjectID.Hex())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts minted id and round-trips", func(t *testing.T) {
		minted := NewID()
		parsed, err := ParseID(minted.String())
		require.NoError(t, err)
		assert.Equal(t, minted, parsed)
		assert.Equal(t, minted.String(), parsed.ObjectID().Hex())
	})
}

func TestParseID_HostileInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"injection attempt", `{"$gt": ""}`},
		{"path traversal", "../../../etc/passwd"},
		{"null byte", "65f1c2a9e4b0a1b2c3d4e5f6\x00"},
		{"oversized", strings.Repeat("a", 1000)},
		{"whitespace only", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseID(tt.input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func TestParseNumeroStatus(t *testing.T) {
	for _, ok := range []string{"Active", "Inactive"} {
		s, err := ParseNumeroStatus(ok)
		require.NoError(t, err)
		assert.Equal(t, ok, s.String())
	}
	for _, bad := range []string{"", "active", "ACTIVE", "Suspended"} {
		_, err := ParseNumeroStatus(bad)
		require.Error(t, err, "input %q", bad)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	}
}
