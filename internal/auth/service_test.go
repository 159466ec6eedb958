package auth

import (
	"context"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/wardrop-backend/pkg/auth"
	"github.com/angelmondragon/wardrop-backend/pkg/auth/session"
	"github.com/angelmondragon/wardrop-backend/pkg/config"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/security"
	"github.com/google/uuid"
)

var testJWT = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "wardrop",
	ExpirationMinutes: 30,
}

type stubAdminRepo struct {
	byEmail   map[string]*models.Admin
	lastLogin map[uuid.UUID]time.Time
}

func newStubAdminRepo(admins ...*models.Admin) *stubAdminRepo {
	r := &stubAdminRepo{byEmail: map[string]*models.Admin{}, lastLogin: map[uuid.UUID]time.Time{}}
	for _, a := range admins {
		r.byEmail[a.Email] = a
	}
	return r
}

func (r *stubAdminRepo) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	return r.byEmail[email], nil
}

func (r *stubAdminRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Admin, error) {
	for _, a := range r.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *stubAdminRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.lastLogin[id] = at
	return nil
}

func (r *stubAdminRepo) UpdateName(_ context.Context, id uuid.UUID, name string) error {
	for _, a := range r.byEmail {
		if a.ID == id {
			a.Name = name
		}
	}
	return nil
}

func (r *stubAdminRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	for _, a := range r.byEmail {
		if a.ID == id {
			a.PasswordHash = hash
		}
	}
	return nil
}

// memorySessions mimics the Redis-backed manager with a map.
type memorySessions struct {
	tokens map[string]string
}

func newMemorySessions() *memorySessions {
	return &memorySessions{tokens: map[string]string{}}
}

func (m *memorySessions) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	m.tokens[accessID] = token
	return token, nil
}

func (m *memorySessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := m.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(m.tokens, oldAccessID)
	newID := session.NewAccessID()
	token, _ := m.Generate(ctx, newID)
	return newID, token, nil
}

func (m *memorySessions) Revoke(_ context.Context, accessID string) error {
	delete(m.tokens, accessID)
	return nil
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func newAdmin(t *testing.T, email, password string) *models.Admin {
	t.Helper()
	return &models.Admin{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Lina",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     true,
	}
}

func buildTestService(t *testing.T, admins ...*models.Admin) (Service, *stubAdminRepo, *memorySessions) {
	t.Helper()
	repo := newStubAdminRepo(admins...)
	sessions := newMemorySessions()
	svc, err := NewService(ServiceParams{AdminRepo: repo, SessionManager: sessions, JWTConfig: testJWT})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo, sessions
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{SessionManager: newMemorySessions()}); err == nil {
		t.Fatal("expected missing repo to fail")
	}
	if _, err := NewService(ServiceParams{AdminRepo: newStubAdminRepo()}); err == nil {
		t.Fatal("expected missing session manager to fail")
	}
}

func TestServiceLoginIssuesTokens(t *testing.T) {
	admin := newAdmin(t, "owner@wardrop.dz", "robe-secret")
	svc, repo, sessions := buildTestService(t, admin)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "  Owner@Wardrop.dz ", Password: "robe-secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Role != enums.AdminRoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if sessions.tokens[claims.ID] != resp.RefreshToken {
		t.Fatalf("refresh token not stored under jti %s", claims.ID)
	}
	if _, ok := repo.lastLogin[admin.ID]; !ok {
		t.Fatal("expected last login to be recorded")
	}
	if resp.Admin == nil || resp.Admin.LastLoginAt == nil || resp.TokenType != "bearer" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestServiceLoginRejectsBadCredentials(t *testing.T) {
	admin := newAdmin(t, "owner@wardrop.dz", "robe-secret")
	disabled := newAdmin(t, "old@wardrop.dz", "robe-secret")
	disabled.IsActive = false
	svc, _, sessions := buildTestService(t, admin, disabled)

	cases := []LoginRequest{
		{Email: "owner@wardrop.dz", Password: "wrong"},
		{Email: "nobody@wardrop.dz", Password: "robe-secret"},
		{Email: "old@wardrop.dz", Password: "robe-secret"},
		{Email: "   ", Password: "robe-secret"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("expected unauthorized for %q, got %v", req.Email, err)
		}
	}
	if len(sessions.tokens) != 0 {
		t.Fatalf("expected no sessions, got %d", len(sessions.tokens))
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	admin := newAdmin(t, "owner@wardrop.dz", "robe-secret")
	svc, _, sessions := buildTestService(t, admin)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: admin.Email, Password: "robe-secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.Refresh(ctx, login.AccessToken, RefreshRequest{RefreshToken: "stolen"}); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for bad refresh token, got %v", err)
	}

	refreshed, err := svc.Refresh(ctx, login.AccessToken, RefreshRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatal("expected refresh token to rotate")
	}
	claims, err := pkgAuth.ParseAccessToken(testJWT, refreshed.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if claims.AdminID != admin.ID {
		t.Fatalf("unexpected admin %s", claims.AdminID)
	}
	if len(sessions.tokens) != 1 || sessions.tokens[claims.ID] != refreshed.RefreshToken {
		t.Fatalf("expected only the rotated session to remain, got %v", sessions.tokens)
	}

	if _, err := svc.Refresh(ctx, login.AccessToken, RefreshRequest{RefreshToken: login.RefreshToken}); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected replayed refresh to fail, got %v", err)
	}
}

func TestServiceLogoutRevokes(t *testing.T) {
	admin := newAdmin(t, "owner@wardrop.dz", "robe-secret")
	svc, _, sessions := buildTestService(t, admin)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: admin.Email, Password: "robe-secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx, login.AccessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.tokens) != 0 {
		t.Fatalf("expected session to be revoked, got %v", sessions.tokens)
	}
	if err := svc.Logout(ctx, "not-a-jwt"); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for garbage token, got %v", err)
	}
}

func TestServiceMeAndUpdateProfile(t *testing.T) {
	admin := newAdmin(t, "owner@wardrop.dz", "robe-secret")
	svc, _, _ := buildTestService(t, admin)
	ctx := context.Background()

	me, err := svc.Me(ctx, admin.ID)
	if err != nil || me.Email != admin.Email {
		t.Fatalf("me: %+v %v", me, err)
	}

	if _, err := svc.UpdateProfile(ctx, admin.ID, UpdateProfileRequest{Name: "  "}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	updated, err := svc.UpdateProfile(ctx, admin.ID, UpdateProfileRequest{Name: " Lina B. "})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Name != "Lina B." || admin.Name != "Lina B." {
		t.Fatalf("unexpected name %q", updated.Name)
	}

	if _, err := svc.Me(ctx, uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for unknown admin, got %v", err)
	}
}

func TestServiceLoginRehashesOutdatedPassword(t *testing.T) {
	admin := newAdmin(t, "owner@wardrop.dz", "robe-secret")
	original := admin.PasswordHash
	repo := newStubAdminRepo(admin)
	current := config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 2, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
	svc, err := NewService(ServiceParams{AdminRepo: repo, SessionManager: newMemorySessions(), JWTConfig: testJWT, Password: &current})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginRequest{Email: admin.Email, Password: "robe-secret"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if admin.PasswordHash == original || security.NeedsRehash(admin.PasswordHash, current) {
		t.Fatalf("expected hash upgraded to current costs, got %s", admin.PasswordHash)
	}
	if ok, _ := security.VerifyPassword("robe-secret", admin.PasswordHash); !ok {
		t.Fatal("rehashed password no longer verifies")
	}
}
