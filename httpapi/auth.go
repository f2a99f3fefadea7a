package httpapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Roles recognized in token claims. Deletes require RoleManager.
const (
	RoleUser    = "User"
	RoleManager = "Manager"
)

var (
	ErrMissingToken  = errors.New("missing authentication token")
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Claims are the bearer-token claims the service cares about.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole reports whether the token carries the given role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenVerifier validates HS256 bearer tokens. Token issuance is handled
// elsewhere; this service only verifies.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a verifier for tokens signed with the given
// secret. An empty issuer skips issuer checking.
func NewTokenVerifier(secret, issuer string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, errors.New("secret key required")
	}
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}, nil
}

// Verify parses and validates a raw token string and returns its claims.
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, fmt.Errorf("%w: invalid issuer", ErrInvalidClaims)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidClaims)
	}

	return claims, nil
}

type contextKey string

const claimsContextKey contextKey = "claims"

// ClaimsFromContext extracts the verified claims set by Authenticate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

func withClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}
