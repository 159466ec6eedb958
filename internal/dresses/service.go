package dresses

import (
	"context"
	"strings"

	"github.com/angelmondragon/wardrop-backend/internal/media"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes dress inventory management.
type Service interface {
	List(ctx context.Context, params ListParams) (pagination.Page[models.Dress], error)
	Get(ctx context.Context, id uuid.UUID) (*models.Dress, error)
	Create(ctx context.Context, input CreateInput, uploads []media.Upload) (*models.Dress, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Dress, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UploadImages(ctx context.Context, id uuid.UUID, uploads []media.Upload) ([]string, error)
	DeleteImage(ctx context.Context, id, imageID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// availabilityRefresher recomputes a dress's status from its bookings.
type availabilityRefresher interface {
	RefreshAvailability(ctx context.Context, tx *gorm.DB, dressID uuid.UUID) (enums.AvailabilityStatus, error)
}

// ServiceParams wires the dresses service.
type ServiceParams struct {
	Repo         Repository
	TxRunner     txRunner
	Media        media.Service
	Availability availabilityRefresher
	Logger       *logger.Logger
}

type service struct {
	repo         Repository
	tx           txRunner
	media        media.Service
	availability availabilityRefresher
	logg         *logger.Logger
}

// NewService validates dependencies and builds the dresses service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "dresses repository required")
	}
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Media == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "media service required")
	}
	if params.Availability == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "availability refresher required")
	}
	return &service{
		repo:         params.Repo,
		tx:           params.TxRunner,
		media:        params.Media,
		availability: params.Availability,
		logg:         params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (pagination.Page[models.Dress], error) {
	if params.Status != nil && !params.Status.IsValid() {
		return pagination.Page[models.Dress]{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", *params.Status)
	}
	params.Params = params.Params.Normalize()
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[models.Dress]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list dresses")
	}
	return pagination.NewPage(rows, total, params.Params), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Dress, error) {
	dress, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get dress")
	}
	if dress == nil {
		return nil, pkgerrors.NotFound("dress")
	}
	return dress, nil
}

func (s *service) Create(ctx context.Context, input CreateInput, uploads []media.Upload) (*models.Dress, error) {
	dress := &models.Dress{
		Name:          strings.TrimSpace(input.Name),
		Category:      strings.TrimSpace(input.Category),
		Size:          strings.TrimSpace(input.Size),
		Color:         strings.TrimSpace(input.Color),
		RentalPrice:   input.RentalPrice,
		DepositAmount: input.DepositAmount,
		Status:        enums.AvailabilityStatusAvailable,
		Description:   input.Description,
	}
	if dress.Name == "" || dress.Category == "" || dress.Size == "" || dress.Color == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, category, size and color are required")
	}
	if err := validateMoney(&input.RentalPrice, &input.DepositAmount); err != nil {
		return nil, err
	}
	if input.Status != nil {
		switch *input.Status {
		case enums.AvailabilityStatusAvailable, enums.AvailabilityStatusMaintenance:
			dress.Status = *input.Status
		default:
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "a new dress cannot start as %q", *input.Status)
		}
	}

	if err := s.repo.Create(ctx, dress); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create dress")
	}
	if len(uploads) > 0 {
		if _, err := s.UploadImages(ctx, dress.ID, uploads); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, dress.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Dress, error) {
	if err := validateMoney(input.RentalPrice, input.DepositAmount); err != nil {
		return nil, err
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", *input.Status)
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		dress, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get dress")
		}
		if dress == nil {
			return pkgerrors.NotFound("dress")
		}
		dress.Images = nil

		for _, field := range []struct {
			dst  *string
			src  *string
			name string
		}{
			{&dress.Name, input.Name, "name"},
			{&dress.Category, input.Category, "category"},
			{&dress.Size, input.Size, "size"},
			{&dress.Color, input.Color, "color"},
		} {
			if field.src == nil {
				continue
			}
			v := strings.TrimSpace(*field.src)
			if v == "" {
				return pkgerrors.Newf(pkgerrors.CodeValidation, "%s cannot be empty", field.name)
			}
			*field.dst = v
		}
		if input.RentalPrice != nil {
			dress.RentalPrice = *input.RentalPrice
		}
		if input.DepositAmount != nil {
			dress.DepositAmount = *input.DepositAmount
		}
		if input.Description != nil {
			dress.Description = input.Description
		}

		unpin := false
		if input.Status != nil {
			if *input.Status == enums.AvailabilityStatusMaintenance {
				dress.Status = enums.AvailabilityStatusMaintenance
			} else {
				// available and rented only clear the pin; bookings decide the rest
				dress.Status = enums.AvailabilityStatusAvailable
				unpin = true
			}
		}

		if err := repo.Save(ctx, dress); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update dress")
		}
		if unpin {
			if _, err := s.availability.RefreshAvailability(ctx, tx, dress.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	dress, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete dress")
	}
	if !deleted {
		return pkgerrors.NotFound("dress")
	}
	for _, img := range dress.Images {
		s.removeFile(ctx, img.ImagePath)
	}
	return nil
}

// UploadImages stores the files and attaches them to the dress. The first
// image becomes primary when the dress has none.
func (s *service) UploadImages(ctx context.Context, id uuid.UUID, uploads []media.Upload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one image is required")
	}
	dress, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	hasPrimary := false
	for _, img := range dress.Images {
		hasPrimary = hasPrimary || img.IsPrimary
	}

	paths := make([]string, 0, len(uploads))
	rows := make([]models.DressImage, 0, len(uploads))
	for _, upload := range uploads {
		stored, err := s.media.Store(ctx, media.FolderDresses, upload)
		if err != nil {
			s.removeFiles(ctx, paths)
			return nil, err
		}
		paths = append(paths, stored)
		rows = append(rows, models.DressImage{
			DressID:   id,
			ImagePath: stored,
			IsPrimary: !hasPrimary && len(rows) == 0,
		})
	}
	if err := s.repo.AddImages(ctx, rows); err != nil {
		s.removeFiles(ctx, paths)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: add dress images")
	}
	return paths, nil
}

func (s *service) DeleteImage(ctx context.Context, id, imageID uuid.UUID) error {
	var removed string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		image, err := repo.FindImage(ctx, id, imageID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get dress image")
		}
		if image == nil {
			return pkgerrors.NotFound("image")
		}
		if err := repo.DeleteImage(ctx, image.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete dress image")
		}
		if image.IsPrimary {
			if err := repo.PromoteFirstImage(ctx, id); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: promote dress image")
			}
		}
		removed = image.ImagePath
		return nil
	})
	if err != nil {
		return err
	}
	s.removeFile(ctx, removed)
	return nil
}

func (s *service) removeFiles(ctx context.Context, paths []string) {
	for _, p := range paths {
		s.removeFile(ctx, p)
	}
}

// removeFile deletes a stored upload; the row is already gone so failures are only logged.
func (s *service) removeFile(ctx context.Context, path string) {
	if err := s.media.Remove(ctx, path); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "path", path), "failed to remove dress image: "+err.Error())
	}
}

func validateMoney(values ...*decimal.Decimal) error {
	for _, v := range values {
		if v != nil && v.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "amounts cannot be negative")
		}
	}
	return nil
}
