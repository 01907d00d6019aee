// ABOUTME: HS256 session tokens carrying the signed-in user's uid and email.
// ABOUTME: Built on golang-jwt with a uuid token id and a fixed issuer.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "timetrack"

// DefaultTokenTTL is how long a session stays valid.
const DefaultTokenTTL = 720 * time.Hour

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a token manager. A non-positive ttl uses DefaultTokenTTL.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for u and returns it with its expiry.
func (tm *TokenManager) Issue(u User) (string, time.Time, error) {
	now := tm.now()
	expiresAt := now.Add(tm.ttl)

	c := &claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   u.UID,
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate parses token and returns the session it describes.
func (tm *TokenManager) Validate(token string) (*Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.Subject == "" {
		return nil, fmt.Errorf("invalid session token")
	}

	return &Session{
		User:      User{UID: c.Subject, Email: c.Email},
		Token:     token,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// GenerateSecret returns a random hex-encoded signing secret.
func GenerateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
