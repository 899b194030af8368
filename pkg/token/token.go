package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"accounts/pkg/models"
)

// Claims carries the authenticated subject. Subject is the username,
// UserID the serial id assigned by the store.
type Claims struct {
	jwt.RegisteredClaims
	UserID int    `json:"user_id"`
	UUID   string `json:"uuid,omitempty"`
}

// JWT issues and verifies HS256 session tokens. The secret and lifetime
// are fixed at construction; the clock is injectable so expiry behavior
// is testable with a frozen time.
type JWT struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func New(secret string, lifetime time.Duration) *JWT {
	return &JWT{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// NewWithClock is like New but with a caller-supplied clock.
func NewWithClock(secret string, lifetime time.Duration, now func() time.Time) *JWT {
	return &JWT{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      now,
	}
}

func (j *JWT) Issue(user models.User) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.lifetime)),
		},
		UserID: user.ID,
		UUID:   user.UUID,
	})

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature before trusting any claim, then the time
// window. Failures map onto the models sentinel errors; callers surface
// all of them to clients as a generic 401.
func (j *JWT) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(j.now))

	switch {
	case err == nil && token.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("%w: %w", models.ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, fmt.Errorf("%w: %w", models.ErrTokenInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: %w", models.ErrTokenExpired, err)
	default:
		if err == nil {
			err = errors.New("token is invalid")
		}
		return nil, fmt.Errorf("%w: %w", models.ErrTokenMalformed, err)
	}
}
