package settings

import (
	"context"
	"strings"

	"github.com/angelmondragon/wardrop-backend/internal/media"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
)

// Service manages the shop-wide settings row and its logo.
type Service interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, input UpdateInput) (*models.Settings, error)
	UploadLogo(ctx context.Context, upload media.Upload) (*models.Settings, error)
	DeleteLogo(ctx context.Context) (*models.Settings, error)
}

type service struct {
	repo  Repository
	media media.Service
	logg  *logger.Logger
}

func NewService(repo Repository, mediaSvc media.Service, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "settings repository required")
	}
	if mediaSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "media service required")
	}
	return &service{repo: repo, media: mediaSvc, logg: logg}, nil
}

func (s *service) Get(ctx context.Context) (*models.Settings, error) {
	row, err := s.repo.GetOrCreate(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load settings")
	}
	return row, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Settings, error) {
	row, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if input.Language != nil {
		if !input.Language.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported language %q", *input.Language)
		}
		row.Language = *input.Language
	}
	if input.BrandName != nil {
		name := strings.TrimSpace(*input.BrandName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand_name must not be empty")
		}
		row.BrandName = name
	}
	if input.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if currency == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency must not be empty")
		}
		row.Currency = currency
	}
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save settings")
	}
	return row, nil
}

func (s *service) UploadLogo(ctx context.Context, upload media.Upload) (*models.Settings, error) {
	row, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	path, err := s.media.Store(ctx, media.FolderLogos, upload)
	if err != nil {
		return nil, err
	}
	previous := row.LogoPath
	row.LogoPath = &path
	if err := s.repo.Save(ctx, row); err != nil {
		s.removeFile(ctx, path)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save logo")
	}
	if previous != nil {
		s.removeFile(ctx, *previous)
	}
	return row, nil
}

func (s *service) DeleteLogo(ctx context.Context) (*models.Settings, error) {
	row, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if row.LogoPath == nil {
		return row, nil
	}
	previous := *row.LogoPath
	row.LogoPath = nil
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear logo")
	}
	s.removeFile(ctx, previous)
	return row, nil
}

func (s *service) removeFile(ctx context.Context, path string) {
	if err := s.media.Remove(ctx, path); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "path", path), "logo file cleanup failed: "+err.Error())
	}
}
