package validation

import (
	"fmt"
	"strings"

	"accounts/pkg/models"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 255
	minPasswordLen = 8
	// bcrypt reads at most 72 bytes of input; anything longer must be
	// rejected here or GenerateFromPassword fails at hash time.
	maxPasswordLen = 72
)

// Credentials is a normalized username/password pair.
type Credentials struct {
	Username string
	Password string
}

// Normalize trims the username and checks both fields against the length
// rules. It never mutates the password.
func Normalize(username, password string) (Credentials, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return Credentials{}, fmt.Errorf("%w: username is required", models.ErrValidation)
	}
	if len(username) < minUsernameLen {
		return Credentials{}, fmt.Errorf("%w: username must be at least %d characters", models.ErrValidation, minUsernameLen)
	}
	if len(username) > maxUsernameLen {
		return Credentials{}, fmt.Errorf("%w: username must be at most %d characters", models.ErrValidation, maxUsernameLen)
	}
	if password == "" {
		return Credentials{}, fmt.Errorf("%w: password is required", models.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return Credentials{}, fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return Credentials{}, fmt.Errorf("%w: password must be at most %d characters", models.ErrValidation, maxPasswordLen)
	}

	return Credentials{Username: username, Password: password}, nil
}
