package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/solemate/solemate/internal/model"
	"github.com/solemate/solemate/internal/service"
	"github.com/solemate/solemate/internal/store"
)

func newTestAuthService(t *testing.T) (*service.AuthService, *store.Store) {
	t.Helper()
	st, err := store.Open("sqlite", "")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return service.NewAuthService(st, "middleware-test-secret", time.Hour), st
}

func seedMiddlewareUser(t *testing.T, st *store.Store, username string, role model.Role) *model.User {
	t.Helper()
	hash, err := service.HashPassword(username + "-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestIDGenerated(t *testing.T) {
	var captured string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if captured == "" {
		t.Error("expected a request ID in the context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != captured {
		t.Errorf("response header %q does not match context value %q", got, captured)
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	h := RequestID(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "client-supplied-id" {
		t.Errorf("got %q, want client-supplied-id", got)
	}
}

func TestRequestIDOversizedHeaderReplaced(t *testing.T) {
	h := RequestID(okHandler(t))

	huge := strings.Repeat("x", maxRequestIDLen+1)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", huge)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := rec.Header().Get("X-Request-ID")
	if got == huge || got == "" {
		t.Errorf("oversized client ID should be replaced, got %q", got)
	}
}

func TestAuthenticateMissingHeader(t *testing.T) {
	authSvc, _ := newTestAuthService(t)
	h := Authenticate(authSvc)(okHandler(t))

	cases := map[string]string{
		"no header":     "",
		"wrong scheme":  "Basic dXNlcjpwYXNz",
		"bare token":    "some-token-without-scheme",
		"garbage token": "Bearer not-a-jwt",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: got status %d, want 401", name, rec.Code)
		}
	}
}

func TestAuthenticateAttachesUser(t *testing.T) {
	authSvc, st := newTestAuthService(t)
	user := seedMiddlewareUser(t, st, "alice", model.RoleClient)
	token, err := authSvc.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	var got *model.User
	h := Authenticate(authSvc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CurrentUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if got == nil || got.ID != user.ID {
		t.Errorf("context user: got %+v, want ID %d", got, user.ID)
	}
}

func TestAuthenticateDeactivatedUser(t *testing.T) {
	authSvc, st := newTestAuthService(t)
	user := seedMiddlewareUser(t, st, "bob", model.RoleClient)
	token, err := authSvc.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if err := st.DeactivateUser(context.Background(), user.ID); err != nil {
		t.Fatalf("DeactivateUser: %v", err)
	}

	h := Authenticate(authSvc)(okHandler(t))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("deactivated user token: got status %d, want 401", rec.Code)
	}
}

func TestAuthenticateStoreFailure(t *testing.T) {
	authSvc, st := newTestAuthService(t)
	user := seedMiddlewareUser(t, st, "eve", model.RoleClient)
	token, err := authSvc.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	// The store going away is not a token problem: the holder of a valid
	// token must see a server error, not a 401 telling them to re-login.
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	h := Authenticate(authSvc)(okHandler(t))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("store failure: got status %d, want 500", rec.Code)
	}
}

func TestRequireAdminForbidsClient(t *testing.T) {
	authSvc, st := newTestAuthService(t)
	client := seedMiddlewareUser(t, st, "carol", model.RoleClient)
	token, err := authSvc.IssueToken(client)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	h := Authenticate(authSvc)(RequireAdmin()(okHandler(t)))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// Known caller without the role: 403, not 401.
	if rec.Code != http.StatusForbidden {
		t.Errorf("client on admin route: got status %d, want 403", rec.Code)
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	authSvc, st := newTestAuthService(t)
	admin := seedMiddlewareUser(t, st, "dora", model.RoleAdmin)
	token, err := authSvc.IssueToken(admin)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	h := Authenticate(authSvc)(RequireAdmin()(okHandler(t)))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("admin on admin route: got status %d, want 200", rec.Code)
	}
}

func TestRequireAdminWithoutAuthenticate(t *testing.T) {
	// Misconfigured chain: no Authenticate ran, so no identity exists.
	h := RequireAdmin()(okHandler(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", rec.Code)
	}
}

func TestCurrentUserEmptyContext(t *testing.T) {
	if u := CurrentUser(context.Background()); u != nil {
		t.Errorf("got %+v, want nil", u)
	}
}
