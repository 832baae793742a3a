package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/solemate/solemate/internal/model"
	"github.com/solemate/solemate/internal/store"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong password,
	// so login responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers every bearer-token failure: bad signature, wrong
	// signing method, expired, malformed, unknown subject, or deactivated
	// subject. Callers surface it uniformly as 401. Store failures are not
	// token failures and are never folded into this error.
	ErrInvalidToken = errors.New("invalid token")
)

// AuthService verifies credentials, mints bearer tokens, and resolves tokens
// back to user accounts. It holds no mutable state: the signing key and TTL
// are fixed at construction and the store owns all user rows.
type AuthService struct {
	store     *store.Store
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates an AuthService backed by the given store.
func NewAuthService(st *store.Store, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		store:     st,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// TokenTTL returns the configured token lifetime.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// Authenticate verifies a username/password pair against the store. It does
// not check the active flag; that belongs to token resolution, which guards
// every protected request. Unknown usernames still pay one bcrypt comparison
// so both failure paths take comparable time.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			VerifyPassword(password, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken mints a signed HS256 bearer token for the user with the
// configured TTL. The subject claim carries the username.
func (s *AuthService) IssueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		Issuer:    "solemate",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ResolveToken validates a bearer token and returns the user it stands for.
// The subject is re-resolved from the store on every call, so deactivation
// takes effect immediately even for tokens issued earlier. Every token
// failure is reported as ErrInvalidToken; the caller never learns which check
// tripped. A store failure is returned as-is, since it says nothing about the
// token.
func (s *AuthService) ResolveToken(ctx context.Context, tokenStr string) (*model.User, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// Pin the algorithm: a token signed any other way is rejected
		// outright, closing the usual alg-confusion hole.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.store.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidToken
	}
	return user, nil
}
