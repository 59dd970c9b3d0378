// Package auth implements session credentials: the signed token codec, the
// password hasher and the guard that authorizes requests carrying a token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/promptkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenValidity is the session lifetime used when none is configured.
const DefaultTokenValidity = 24 * time.Hour

// ErrNoSigningKey is returned when the codec was built without a secret.
// It is a configuration fault, not a token fault.
var ErrNoSigningKey = errors.New("token signing key is not configured")

// Identity is the subject a session token speaks for.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Claims is the payload of a session token: the subject plus the registered
// iat/exp/jti claims.
type Claims struct {
	Email  string `json:"email"`
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Identity returns the subject of c.
func (c *Claims) Identity() Identity {
	return Identity{ID: c.UserID, Email: c.Email}
}

// Codec issues and verifies HS256 session tokens. It is safe for concurrent use.
type Codec struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewCodec returns a Codec signing with secret. A non-positive validity
// falls back to DefaultTokenValidity.
func NewCodec(secret []byte, validity time.Duration) *Codec {
	if validity <= 0 {
		validity = DefaultTokenValidity
	}
	return &Codec{secret: secret, validity: validity, now: time.Now}
}

// WithClock returns a copy of c that reads time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// Issue signs a token for id that expires after the configured validity.
func (c *Codec) Issue(id Identity) (string, error) {
	if len(c.secret) == 0 {
		return "", ErrNoSigningKey
	}

	issuedAt := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email:  id.Email,
		UserID: id.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.validity)),
		},
	})

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
// Expired tokens yield common.ErrTokenExpired; every other token fault
// yields common.ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	if len(c.secret) == 0 {
		return nil, ErrNoSigningKey
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", common.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
