// Package jwt issues and verifies signed, time-bounded identity assertions.
package jwt

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ratewell/store-ratings/internal/domain"
)

// DefaultTokenDuration is how long issued tokens stay valid. There is no
// server-side revocation: a leaked token remains usable until expiry.
const DefaultTokenDuration = 24 * time.Hour

// Config contains authenticator configuration.
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
}

// Claims are the facts embedded in a signed token. Subject holds the user
// ID; name and email ride along so clients can render the identity without
// an extra lookup.
type Claims struct {
	Role  domain.Role `json:"role"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator signs and verifies HS256 bearer tokens.
type Authenticator struct {
	secret        []byte
	tokenDuration time.Duration
}

// NewAuthenticator creates a token authenticator. The secret must be
// non-empty; config validation rejects a missing secret at startup.
func NewAuthenticator(cfg Config) *Authenticator {
	duration := cfg.TokenDuration
	if duration <= 0 {
		duration = DefaultTokenDuration
	}
	return &Authenticator{
		secret:        []byte(cfg.SecretKey),
		tokenDuration: duration,
	}
}

// GenerateToken issues a signed token for the user with issued-at now and
// expiry TokenDuration from now.
func (a *Authenticator) GenerateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:  user.Role,
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenDuration)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ValidateToken verifies signature and expiry and returns the embedded
// identity. Invalid and expired tokens are indistinguishable to callers;
// both map to a 401 at the HTTP boundary.
func (a *Authenticator) ValidateToken(_ context.Context, tokenString string) (int64, domain.Role, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("parse token: %w", err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse token subject: %w", err)
	}
	if !claims.Role.IsValid() {
		return 0, "", fmt.Errorf("unknown role in token: %q", claims.Role)
	}

	return userID, claims.Role, nil
}
