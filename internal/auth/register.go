package auth

import (
	"context"
	"strings"

	"github.com/angelmondragon/wardrop-backend/internal/admins"
	"github.com/angelmondragon/wardrop-backend/pkg/config"
	"github.com/angelmondragon/wardrop-backend/pkg/db"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
	"github.com/angelmondragon/wardrop-backend/pkg/security"
	"gorm.io/gorm"
)

// RegisterRequest is the first-run setup payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// RegisterService creates the initial admin account.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*admins.AdminDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerAdminRepository interface {
	Count(ctx context.Context) (int64, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	TxRunner         txRunner
	AdminRepoFactory func(tx *gorm.DB) registerAdminRepository
	PasswordConfig   config.PasswordConfig
	Logger           *logger.Logger
}

type registerService struct {
	tx          txRunner
	adminRepo   func(tx *gorm.DB) registerAdminRepository
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.AdminRepoFactory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "admin repository factory required")
	}
	return &registerService{
		tx:          params.TxRunner,
		adminRepo:   params.AdminRepoFactory,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
	}, nil
}

// NewDBRegisterService wires registration against the shared database client.
func NewDBRegisterService(client *db.Client, cfg config.PasswordConfig, logg *logger.Logger) (RegisterService, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	base := admins.NewRepository(client.DB())
	return NewRegisterService(RegisterServiceParams{
		TxRunner: client,
		AdminRepoFactory: func(tx *gorm.DB) registerAdminRepository {
			return base.WithTx(tx)
		},
		PasswordConfig: cfg,
		Logger:         logg,
	})
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*admins.AdminDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(req.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.Admin
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.adminRepo(tx)

		total, err := repo.Count(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count admins")
		}
		if total > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "admin already exists")
		}

		existing, err := repo.FindByEmail(ctx, email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check admin email")
		}
		if existing != nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}

		admin := &models.Admin{
			Email:        email,
			Name:         name,
			PasswordHash: passwordHash,
			IsActive:     true,
		}
		if err := repo.Create(ctx, admin); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create admin")
		}
		created = admin
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithAdminID(ctx, created.ID.String()), "initial admin registered")
	}
	return admins.FromModel(created), nil
}
