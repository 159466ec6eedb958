package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/wardrop-backend/pkg/auth"
	"github.com/angelmondragon/wardrop-backend/pkg/auth/session"
	"github.com/angelmondragon/wardrop-backend/pkg/config"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/google/uuid"
)

func TestAuthRejectsMissingToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	handler := Auth(cfg, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	handler := Auth(cfg, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthAllowsValidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	adminID := uuid.New()
	token := mintTestToken(t, cfg, adminID, enums.AdminRoleAdmin)

	var captured struct {
		admin uuid.UUID
		role  string
	}
	handler := Auth(cfg, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.admin = AdminIDFromContext(r.Context())
		captured.role = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.admin != adminID {
		t.Fatalf("expected admin %s got %s", adminID, captured.admin)
	}
	if captured.role != string(enums.AdminRoleAdmin) {
		t.Fatalf("expected role admin got %s", captured.role)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	token := mintTestToken(t, cfg, uuid.New(), enums.AdminRoleAdmin)

	cases := map[string]struct {
		verifier stubSessionVerifier
		want     int
	}{
		"revoked":     {stubSessionVerifier{ok: false}, http.StatusUnauthorized},
		"store error": {stubSessionVerifier{err: errors.New("redis down")}, http.StatusServiceUnavailable},
	}
	for name, tc := range cases {
		handler := Auth(cfg, tc.verifier, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("%s: handler should not run", name)
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s: expected %d got %d", name, tc.want, resp.Code)
		}
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := BearerToken(req); err == nil {
		t.Fatal("expected missing header to fail")
	}
	req.Header.Set("Authorization", "bearer   abc ")
	got, err := BearerToken(req)
	if err != nil || got != "abc" {
		t.Fatalf("unexpected token %q err=%v", got, err)
	}
	for _, header := range []string{"Bearer ", "Bearer", "bearer \t "} {
		req.Header.Set("Authorization", header)
		if _, err := BearerToken(req); err == nil {
			t.Fatalf("expected %q to fail", header)
		}
	}
	req.Header.Set("Authorization", "Bearerabc")
	if got, err := BearerToken(req); err != nil || got != "Bearerabc" {
		t.Fatalf("expected raw token passthrough, got %q err=%v", got, err)
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, adminID uuid.UUID, role enums.AdminRole) string {
	t.Helper()
	payload := auth.AccessTokenPayload{
		AdminID: adminID,
		Email:   "owner@example.com",
		Role:    role,
		JTI:     session.NewAccessID(),
	}
	token, err := auth.MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

type stubSessionVerifier struct {
	ok  bool
	err error
}

func (s stubSessionVerifier) HasSession(ctx context.Context, accessID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.ok, nil
}
