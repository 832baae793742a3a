package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/solemate/solemate/internal/model"
	"github.com/solemate/solemate/internal/store"
)

const testSecret = "test-secret-key-for-jwt"

func newTestAuth(t *testing.T, ttl time.Duration) (*AuthService, *store.Store) {
	t.Helper()
	st, err := store.Open("sqlite", "")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewAuthService(st, testSecret, ttl), st
}

func seedUser(t *testing.T, st *store.Store, username, password string, role model.Role, active bool) *model.User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func TestAuthenticateAndTokenRoundTrip(t *testing.T) {
	auth, st := newTestAuth(t, time.Hour)
	ctx := context.Background()
	seedUser(t, st, "alice", "secret-one", model.RoleClient, true)

	user, err := auth.Authenticate(ctx, "alice", "secret-one")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username: got %q, want %q", user.Username, "alice")
	}

	token, err := auth.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	resolved, err := auth.ResolveToken(ctx, token)
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if resolved.ID != user.ID {
		t.Errorf("resolved ID: got %d, want %d", resolved.ID, user.ID)
	}
}

func TestAuthenticateUniformFailure(t *testing.T) {
	auth, st := newTestAuth(t, time.Hour)
	ctx := context.Background()
	seedUser(t, st, "bob", "right-password", model.RoleClient, true)

	// Wrong password and unknown username must be the same error.
	_, err1 := auth.Authenticate(ctx, "bob", "wrong-password")
	if !errors.Is(err1, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err1)
	}
	_, err2 := auth.Authenticate(ctx, "nobody", "whatever")
	if !errors.Is(err2, ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v, want ErrInvalidCredentials", err2)
	}
}

func TestAuthenticateDoesNotCheckActiveFlag(t *testing.T) {
	// Proving who you are and deciding whether you may act are separate:
	// the active check belongs to token resolution, not login.
	auth, st := newTestAuth(t, time.Hour)
	ctx := context.Background()
	seedUser(t, st, "carol", "carols-password", model.RoleClient, false)

	if _, err := auth.Authenticate(ctx, "carol", "carols-password"); err != nil {
		t.Fatalf("Authenticate inactive user: %v", err)
	}
}

func TestResolveTokenExpired(t *testing.T) {
	auth, st := newTestAuth(t, -time.Minute)
	ctx := context.Background()
	user := seedUser(t, st, "dave", "daves-password", model.RoleClient, true)

	token, err := auth.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := auth.ResolveToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: got %v, want ErrInvalidToken", err)
	}
}

func TestResolveTokenExpiryAtExactInstant(t *testing.T) {
	auth, st := newTestAuth(t, time.Hour)
	ctx := context.Background()
	seedUser(t, st, "hank", "hanks-password", model.RoleClient, true)

	// Expiry is strict: a token whose exp equals the validation instant is
	// already expired, with no leeway.
	claims := jwt.RegisteredClaims{
		Subject:   "hank",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := auth.ResolveToken(ctx, tokenStr); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("exp at current instant: got %v, want ErrInvalidToken", err)
	}
}

func TestResolveTokenDeactivatedSubject(t *testing.T) {
	auth, st := newTestAuth(t, time.Hour)
	ctx := context.Background()
	user := seedUser(t, st, "erin", "erins-password", model.RoleClient, true)

	token, err := auth.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	// Token is still well within its TTL, but deactivation must win.
	if err := st.DeactivateUser(ctx, user.ID); err != nil {
		t.Fatalf("DeactivateUser: %v", err)
	}
	if _, err := auth.ResolveToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("deactivated subject: got %v, want ErrInvalidToken", err)
	}
}

func TestResolveTokenStoreFailureIsNotInvalidToken(t *testing.T) {
	auth, st := newTestAuth(t, time.Hour)
	ctx := context.Background()
	user := seedUser(t, st, "ivan", "ivans-password", model.RoleClient, true)

	token, err := auth.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	_, err = auth.ResolveToken(ctx, token)
	if err == nil {
		t.Fatal("expected an error with the store closed")
	}
	if errors.Is(err, ErrInvalidToken) {
		t.Errorf("store failure must not be folded into ErrInvalidToken, got %v", err)
	}
}

func TestResolveTokenGarbage(t *testing.T) {
	auth, _ := newTestAuth(t, time.Hour)
	ctx := context.Background()

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := auth.ResolveToken(ctx, tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: got %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestResolveTokenWrongKey(t *testing.T) {
	auth, st := newTestAuth(t, time.Hour)
	ctx := context.Background()
	seedUser(t, st, "frank", "franks-password", model.RoleClient, true)

	other := NewAuthService(st, "a-different-secret", time.Hour)
	user, err := other.Authenticate(ctx, "frank", "franks-password")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	token, err := other.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := auth.ResolveToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign-key token: got %v, want ErrInvalidToken", err)
	}
}

func TestResolveTokenRejectsForeignAlgorithm(t *testing.T) {
	auth, st := newTestAuth(t, time.Hour)
	ctx := context.Background()
	seedUser(t, st, "grace", "graces-password", model.RoleClient, true)

	// An unsigned token must never pass, even with valid claims.
	claims := jwt.RegisteredClaims{
		Subject:   "grace",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenStr, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	if _, err := auth.ResolveToken(ctx, tokenStr); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("alg=none token: got %v, want ErrInvalidToken", err)
	}
}

func TestResolveTokenMissingSubject(t *testing.T) {
	auth, _ := newTestAuth(t, time.Hour)
	ctx := context.Background()

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := auth.ResolveToken(ctx, tokenStr); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("subject-less token: got %v, want ErrInvalidToken", err)
	}
}
