package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/promptkeeper/internal/common"
)

const (
	msgNoToken       = "Access denied. No token provided."
	msgInvalidToken  = "Invalid or expired token."
	msgGuardInternal = "Internal server error while validating token."
)

// Carrier is whatever transports a request to the guard. BodyField returns
// an empty string when the body has no such field.
type Carrier interface {
	BodyField(name string) (string, error)
	Header(name string) string
}

// TokenSource is one strategy for finding a token on a Carrier.
type TokenSource interface {
	Token(c Carrier) (string, error)
}

// BodyField reads the token from a named request body field.
type BodyField string

func (f BodyField) Token(c Carrier) (string, error) { return c.BodyField(string(f)) }

// HeaderField reads the token from a named request header.
type HeaderField string

func (f HeaderField) Token(c Carrier) (string, error) { return c.Header(string(f)), nil }

// DefaultTokenSources checks the body field first, then the header.
var DefaultTokenSources = []TokenSource{
	BodyField(common.TokenBodyField),
	HeaderField(common.TokenHeaderName),
}

// TokenVerifier is the part of Codec the guard depends on.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// Guard authorizes protected operations from a presented token. It never
// touches the user store: the identity comes from the claims alone.
type Guard struct {
	verifier TokenVerifier
	sources  []TokenSource
}

// NewGuard builds a Guard trying sources in order. With no sources given it
// uses DefaultTokenSources.
func NewGuard(v TokenVerifier, sources ...TokenSource) *Guard {
	if len(sources) == 0 {
		sources = DefaultTokenSources
	}
	return &Guard{verifier: v, sources: sources}
}

// Authorize finds the first non-empty token among the guard's sources and
// verifies it. Missing and invalid tokens are both KindUnauthenticated with
// distinct messages; anything else is KindInternal.
func (g *Guard) Authorize(c Carrier) (id Identity, err error) {
	defer func() {
		if r := recover(); r != nil {
			id = Identity{}
			err = common.WrapError(common.KindInternal, msgGuardInternal, fmt.Errorf("panic: %v", r))
		}
	}()

	token, err := g.lookup(c)
	if err != nil {
		return Identity{}, common.WrapError(common.KindInternal, msgGuardInternal, err)
	}
	if token == "" {
		return Identity{}, common.NewError(common.KindUnauthenticated, msgNoToken)
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrTokenExpired) {
			return Identity{}, common.WrapError(common.KindUnauthenticated, msgInvalidToken, err)
		}
		return Identity{}, common.WrapError(common.KindInternal, msgGuardInternal, err)
	}

	return claims.Identity(), nil
}

func (g *Guard) lookup(c Carrier) (string, error) {
	for _, src := range g.sources {
		token, err := src.Token(c)
		if err != nil {
			return "", err
		}
		if token != "" {
			return token, nil
		}
	}
	return "", nil
}
