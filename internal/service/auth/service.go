// Package auth authenticates administrators and issues the signed tokens
// used by the admin API. It does not depend on HTTP.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the role granted to the configured administrator.
const RoleAdmin = "admin"

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = time.Hour

var (
	// ErrInvalidCredentials is returned when the username or password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned for malformed, expired or wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Credentials represents authentication credentials.
type Credentials struct {
	Username string
	Password string
}

// Provider validates credentials and reports the role of the user.
type Provider interface {
	Authenticate(ctx context.Context, creds Credentials) (role string, err error)
}

// StaticProvider accepts a single configured administrator.
type StaticProvider struct {
	User     string
	Password string
}

// Authenticate compares in constant time. An unconfigured provider rejects everyone.
func (p StaticProvider) Authenticate(_ context.Context, creds Credentials) (string, error) {
	if p.User == "" || p.Password == "" || creds.Username == "" || creds.Password == "" {
		return "", ErrInvalidCredentials
	}

	userMatch := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(p.User)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(p.Password)) == 1
	if !userMatch || !passMatch {
		return "", ErrInvalidCredentials
	}
	return RoleAdmin, nil
}

// Claims are the JWT claims carried by admin tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Token is a signed token and its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Service issues and verifies HS256 tokens.
type Service struct {
	provider Provider
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates a Service. A ttl <= 0 means DefaultTokenTTL.
func NewService(provider Provider, secret []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{provider: provider, secret: secret, ttl: ttl, now: time.Now}
}

// IssueToken authenticates creds and returns a signed token for them.
func (s *Service) IssueToken(ctx context.Context, creds Credentials) (*Token, error) {
	role, err := s.provider.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	now := s.now()
	exp := now.Add(s.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   creds.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Token{Value: signed, ExpiresAt: exp}, nil
}

// ParseToken verifies the signature and expiry of a token and returns its claims.
func (s *Service) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
