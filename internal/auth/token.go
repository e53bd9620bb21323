// Package auth verifies who is calling the API.
//
// Two kinds of caller exist:
//
//   - Learners sign in through Clerk. The browser sends Clerk's session JWT
//     (Authorization: Bearer or the __session cookie); ClerkVerifier checks
//     its RS256 signature against the instance's PEM key without a network
//     round trip.
//   - Admins sign in with a username and password stored in our own database.
//     On success TokenService issues a short-lived HS256 token that is set as
//     an HttpOnly cookie and checked by RequireAdmin on every admin route.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	adminIssuer = "skillverse-admin"
	adminRole   = "admin"

	// MinSecretLen is the shortest HMAC secret NewTokenService accepts.
	MinSecretLen = 16
)

// AdminClaims is the payload of an admin session token.
type AdminClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates admin session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("auth: admin token secret must be at least %d characters", MinSecretLen)
	}
	if ttl <= 0 {
		return nil, errors.New("auth: admin token ttl must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for the admin. Every token carries a random jti so two
// logins in the same second still get distinct tokens.
func (s *TokenService) Issue(adminID, username string) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.ttl)

	c := AdminClaims{
		Username: username,
		Role:     adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   adminID,
			Issuer:    adminIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: signing admin token: %w", err)
	}
	return signed, expires, nil
}

// Validate verifies signature, issuer, expiry and role. Only HS256 is
// accepted, which rules out "none" and key-confusion tricks.
func (s *TokenService) Validate(tokenStr string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&AdminClaims{},
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(adminIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("auth: admin token expired")
		}
		return nil, fmt.Errorf("auth: invalid admin token: %w", err)
	}

	c, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("auth: invalid admin token claims")
	}
	if c.Role != adminRole || c.Subject == "" {
		return nil, errors.New("auth: token is not an admin session")
	}
	return c, nil
}
