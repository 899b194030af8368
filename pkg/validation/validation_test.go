package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accounts/pkg/models"
)

func TestNormalize_Valid(t *testing.T) {
	creds, err := Normalize("  alice123  ", "correcthorse")
	require.NoError(t, err)
	assert.Equal(t, "alice123", creds.Username)
	assert.Equal(t, "correcthorse", creds.Password)
}

func TestNormalize_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "correcthorse"},
		{"whitespace username", "   ", "correcthorse"},
		{"short username", "ab", "correcthorse"},
		{"long username", strings.Repeat("a", 256), "correcthorse"},
		{"empty password", "alice123", ""},
		{"short password", "alice123", "short"},
		{"password beyond bcrypt input limit", "alice123", strings.Repeat("p", 73)},
		{"long password", "alice123", strings.Repeat("p", 100)},
		{"both too short", "ab", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.username, tt.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestNormalize_BoundaryLengths(t *testing.T) {
	_, err := Normalize("abc", "12345678")
	require.NoError(t, err)

	_, err = Normalize(strings.Repeat("a", 255), strings.Repeat("p", 72))
	require.NoError(t, err)
}

func TestNormalize_PasswordNotTrimmed(t *testing.T) {
	creds, err := Normalize("alice123", "  spaces  ok  ")
	require.NoError(t, err)
	assert.Equal(t, "  spaces  ok  ", creds.Password)
}
