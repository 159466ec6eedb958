package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/wardrop-backend/internal/admins"
	"github.com/angelmondragon/wardrop-backend/internal/auth"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
)

type stubAuthService struct {
	auth.Service
	login   func(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error)
	refresh func(ctx context.Context, token string, req auth.RefreshRequest) (*auth.TokenResponse, error)
	logout  func(ctx context.Context, token string) error
	me      func(ctx context.Context, id uuid.UUID) (*admins.AdminDTO, error)
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
	return s.login(ctx, req)
}

func (s stubAuthService) Refresh(ctx context.Context, token string, req auth.RefreshRequest) (*auth.TokenResponse, error) {
	return s.refresh(ctx, token, req)
}

func (s stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logout(ctx, token)
}

func (s stubAuthService) Me(ctx context.Context, id uuid.UUID) (*admins.AdminDTO, error) {
	return s.me(ctx, id)
}

type stubRegisterService struct {
	admin *admins.AdminDTO
	err   error
}

func (s stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*admins.AdminDTO, error) {
	return s.admin, s.err
}

func TestAuthLoginReturnsTokens(t *testing.T) {
	svc := stubAuthService{login: func(_ context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
		if req.Email != "owner@example.com" {
			t.Fatalf("unexpected email %s", req.Email)
		}
		return &auth.TokenResponse{AccessToken: "access", RefreshToken: "refresh", TokenType: "bearer"}, nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"owner@example.com","password":"Secret#12"}`))
	rec := httptest.NewRecorder()
	AuthLogin(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var got auth.TokenResponse
	decodeData(t, rec, &got)
	if got.AccessToken != "access" || got.RefreshToken != "refresh" || got.TokenType != "bearer" {
		t.Fatalf("unexpected tokens %+v", got)
	}
}

func TestAuthLoginRejectsInvalidBody(t *testing.T) {
	svc := stubAuthService{login: func(context.Context, auth.LoginRequest) (*auth.TokenResponse, error) {
		t.Fatal("service should not be called")
		return nil, nil
	}}
	for _, body := range []string{`{"email":"nope","password":"x"}`, `{"email":"a@b.co"}`, `{"email":"a@b.co","password":"x","extra":1}`} {
		rec := httptest.NewRecorder()
		AuthLogin(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", body, rec.Code)
		}
	}
}

func TestAuthRegisterConflict(t *testing.T) {
	reg := stubRegisterService{err: pkgerrors.New(pkgerrors.CodeConflict, "admin already exists")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"name":"Lina","email":"lina@example.com","password":"Secret#12"}`))
	rec := httptest.NewRecorder()
	AuthRegister(reg, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestAuthRegisterCreated(t *testing.T) {
	reg := stubRegisterService{admin: &admins.AdminDTO{ID: uuid.New(), Email: "lina@example.com", Name: "Lina", IsActive: true}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"name":"Lina","email":"lina@example.com","password":"Secret#12"}`))
	rec := httptest.NewRecorder()
	AuthRegister(reg, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	var got admins.AdminDTO
	decodeData(t, rec, &got)
	if got.Email != "lina@example.com" {
		t.Fatalf("unexpected admin %+v", got)
	}
}

func TestAuthRefreshPassesBearerToken(t *testing.T) {
	svc := stubAuthService{refresh: func(_ context.Context, token string, req auth.RefreshRequest) (*auth.TokenResponse, error) {
		if token != "expired-access" || req.RefreshToken != "r1" {
			t.Fatalf("unexpected refresh inputs %s %s", token, req.RefreshToken)
		}
		return &auth.TokenResponse{AccessToken: "a2", RefreshToken: "r2", TokenType: "bearer"}, nil
	}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"r1"}`))
	req.Header.Set("Authorization", "Bearer expired-access")
	rec := httptest.NewRecorder()
	AuthRefresh(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	missing := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"r1"}`))
	rec = httptest.NewRecorder()
	AuthRefresh(svc, nil).ServeHTTP(rec, missing)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer got %d", rec.Code)
	}
}

func TestAuthLogout(t *testing.T) {
	var revoked string
	svc := stubAuthService{logout: func(_ context.Context, token string) error {
		revoked = token
		return nil
	}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	AuthLogout(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || revoked != "tok" {
		t.Fatalf("expected logout of tok, got %d %q", rec.Code, revoked)
	}
}

func TestAuthMeRequiresAdminContext(t *testing.T) {
	adminID := uuid.New()
	svc := stubAuthService{me: func(_ context.Context, id uuid.UUID) (*admins.AdminDTO, error) {
		return &admins.AdminDTO{ID: id, Email: "owner@example.com"}, nil
	}}

	rec := httptest.NewRecorder()
	AuthMe(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	AuthMe(svc, nil).ServeHTTP(rec, withAdmin(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), adminID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var got admins.AdminDTO
	decodeData(t, rec, &got)
	if got.ID != adminID {
		t.Fatalf("expected admin %s got %s", adminID, got.ID)
	}
}
