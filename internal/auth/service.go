package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/wardrop-backend/internal/admins"
	pkgAuth "github.com/angelmondragon/wardrop-backend/pkg/auth"
	"github.com/angelmondragon/wardrop-backend/pkg/auth/session"
	"github.com/angelmondragon/wardrop-backend/pkg/config"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
	"github.com/angelmondragon/wardrop-backend/pkg/security"
	"github.com/google/uuid"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	tokenTypeBearer           = "bearer"
)

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, accessToken string, req RefreshRequest) (*TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
	Me(ctx context.Context, adminID uuid.UUID) (*admins.AdminDTO, error)
	UpdateProfile(ctx context.Context, adminID uuid.UUID, req UpdateProfileRequest) (*admins.AdminDTO, error)
}

type adminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	AdminRepo      adminRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	// Password enables rehashing at login when the Argon2 costs changed.
	Password *config.PasswordConfig
	Logger   *logger.Logger
}

type service struct {
	admins  adminRepository
	session sessionManager
	jwtCfg  config.JWTConfig
	pwCfg   *config.PasswordConfig
	logg    *logger.Logger
	now     func() time.Time
}

// NewService constructs the login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.AdminRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "admin repository required")
	}
	if params.SessionManager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session manager required")
	}
	return &service{
		admins:  params.AdminRepo,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
		pwCfg:   params.Password,
		logg:    params.Logger,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	admin, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	s.rehash(ctx, admin, req.Password)

	now := s.now()
	if err := s.admins.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	admin.LastLoginAt = &now

	accessID := session.NewAccessID()
	accessToken, err := s.mint(now, admin.ID, admin.Email, accessID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithAdminID(ctx, admin.ID.String()), "admin logged in")
	}
	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
		Admin:        admins.FromModel(admin),
	}, nil
}

func (s *service) Refresh(ctx context.Context, accessToken string, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.parse(accessToken)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refresh_token is required")
	}

	admin, err := s.activeAdmin(ctx, claims.AdminID)
	if err != nil {
		return nil, err
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	token, err := s.mint(s.now(), admin.ID, admin.Email, newAccessID)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken:  token,
		RefreshToken: newRefreshToken,
		TokenType:    tokenTypeBearer,
		Admin:        admins.FromModel(admin),
	}, nil
}

func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.parse(accessToken)
	if err != nil {
		return err
	}
	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) Me(ctx context.Context, adminID uuid.UUID) (*admins.AdminDTO, error) {
	admin, err := s.activeAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return admins.FromModel(admin), nil
}

func (s *service) UpdateProfile(ctx context.Context, adminID uuid.UUID, req UpdateProfileRequest) (*admins.AdminDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	admin, err := s.activeAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if err := s.admins.UpdateName(ctx, admin.ID, name); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update admin name")
	}
	admin.Name = name
	return admins.FromModel(admin), nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.Admin, error) {
	input := strings.ToLower(strings.TrimSpace(email))
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	admin, err := s.admins.FindByEmail(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup admin")
	}
	if admin == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	valid, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !admin.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return admin, nil
}

// rehash upgrades a stored hash whose costs no longer match the config.
// Failures are logged and never block the login.
func (s *service) rehash(ctx context.Context, admin *models.Admin, password string) {
	if s.pwCfg == nil || !security.NeedsRehash(admin.PasswordHash, *s.pwCfg) {
		return
	}
	hash, err := security.HashPassword(password, *s.pwCfg)
	if err == nil {
		err = s.admins.UpdatePasswordHash(ctx, admin.ID, hash)
	}
	if err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithAdminID(ctx, admin.ID.String()), "password rehash failed", err)
		}
		return
	}
	admin.PasswordHash = hash
}

// activeAdmin treats a deleted or disabled account like a bad token.
func (s *service) activeAdmin(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup admin")
	}
	if admin == nil || !admin.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin not found")
	}
	return admin, nil
}

func (s *service) parse(accessToken string) (*pkgAuth.AccessTokenClaims, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	return claims, nil
}

func (s *service) mint(now time.Time, adminID uuid.UUID, email, accessID string) (string, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		AdminID: adminID,
		Email:   email,
		Role:    enums.AdminRoleAdmin,
		JTI:     accessID,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}
