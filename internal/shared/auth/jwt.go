package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultSecret = "dev-secret"
	defaultTTL    = 24 * time.Hour
)

// Principal is the authenticated caller. Only ID takes part in ownership
// checks; roles are carried for callers that need them.
type Principal struct {
	ID    int64
	Email string
	Roles []string
}

// Claims is the JWT payload issued for a Principal.
type Claims struct {
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

var (
	errMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

// Tokens signs and verifies HS256 bearer tokens.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

// NewTokens returns a Tokens using secret. Production environments must
// provide a non-default secret.
func NewTokens(env, secret string) (*Tokens, error) {
	secret = strings.TrimSpace(secret)
	env = strings.ToLower(strings.TrimSpace(env))
	if env == "production" || env == "prod" {
		if secret == "" || secret == defaultSecret {
			return nil, fmt.Errorf("%w: JWT_SECRET required in production", errMissingSecret)
		}
	}
	if secret == "" {
		secret = defaultSecret
	}
	return &Tokens{secret: []byte(secret), now: time.Now}, nil
}

// Sign issues a token for p valid for ttl (24h when ttl is zero).
func (t *Tokens) Sign(p Principal, ttl time.Duration) (string, error) {
	if p.ID <= 0 {
		return "", errors.New("principal id is required")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	now := t.now().UTC()
	claims := Claims{
		Email: p.Email,
		Roles: p.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify validates token and returns the principal it identifies.
func (t *Tokens) Verify(token string) (Principal, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return Principal{}, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return Principal{}, ErrInvalidToken
	}
	return Principal{ID: id, Email: claims.Email, Roles: claims.Roles}, nil
}
