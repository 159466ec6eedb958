package clothing

import (
	"context"
	"strings"

	"github.com/angelmondragon/wardrop-backend/internal/media"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes clothing stock management.
type Service interface {
	List(ctx context.Context, params ListParams) (pagination.Page[models.Clothing], error)
	Get(ctx context.Context, id uuid.UUID) (*models.Clothing, error)
	Create(ctx context.Context, input CreateInput, uploads []media.Upload) (*models.Clothing, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Clothing, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UploadImages(ctx context.Context, id uuid.UUID, uploads []media.Upload) ([]string, error)
	DeleteImage(ctx context.Context, id, imageID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo  Repository
	tx    txRunner
	media media.Service
	logg  *logger.Logger
}

// NewService validates dependencies and builds the clothing service.
func NewService(repo Repository, tx txRunner, mediaSvc media.Service, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "clothing repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if mediaSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "media service required")
	}
	return &service{repo: repo, tx: tx, media: mediaSvc, logg: logg}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (pagination.Page[models.Clothing], error) {
	params.Params = params.Params.Normalize()
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[models.Clothing]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list clothing")
	}
	return pagination.NewPage(rows, total, params.Params), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Clothing, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get clothing")
	}
	if item == nil {
		return nil, pkgerrors.NotFound("clothing item")
	}
	return item, nil
}

func (s *service) Create(ctx context.Context, input CreateInput, uploads []media.Upload) (*models.Clothing, error) {
	item := &models.Clothing{
		Name:          strings.TrimSpace(input.Name),
		Category:      strings.TrimSpace(input.Category),
		Size:          strings.TrimSpace(input.Size),
		Color:         strings.TrimSpace(input.Color),
		PurchasePrice: input.PurchasePrice,
		SalePrice:     input.SalePrice,
		StockQuantity: input.StockQuantity,
		Description:   input.Description,
	}
	if item.Name == "" || item.Category == "" || item.Size == "" || item.Color == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, category, size and color are required")
	}
	if err := validateMoney(input.PurchasePrice, &input.SalePrice); err != nil {
		return nil, err
	}
	if item.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_quantity cannot be negative")
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create clothing")
	}
	if len(uploads) > 0 {
		if _, err := s.UploadImages(ctx, item.ID, uploads); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, item.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Clothing, error) {
	if err := validateMoney(input.PurchasePrice, input.SalePrice); err != nil {
		return nil, err
	}
	if input.StockQuantity != nil && *input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_quantity cannot be negative")
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Images = nil

	for _, field := range []struct {
		dst  *string
		src  *string
		name string
	}{
		{&item.Name, input.Name, "name"},
		{&item.Category, input.Category, "category"},
		{&item.Size, input.Size, "size"},
		{&item.Color, input.Color, "color"},
	} {
		if field.src == nil {
			continue
		}
		v := strings.TrimSpace(*field.src)
		if v == "" {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "%s cannot be empty", field.name)
		}
		*field.dst = v
	}
	if input.PurchasePrice != nil {
		item.PurchasePrice = input.PurchasePrice
	}
	if input.SalePrice != nil {
		item.SalePrice = *input.SalePrice
	}
	if input.StockQuantity != nil {
		item.StockQuantity = *input.StockQuantity
	}
	if input.Description != nil {
		item.Description = input.Description
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update clothing")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete clothing")
	}
	if !deleted {
		return pkgerrors.NotFound("clothing item")
	}
	for _, img := range item.Images {
		s.removeFile(ctx, img.ImagePath)
	}
	return nil
}

func (s *service) UploadImages(ctx context.Context, id uuid.UUID, uploads []media.Upload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one image is required")
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	hasPrimary := false
	for _, img := range item.Images {
		hasPrimary = hasPrimary || img.IsPrimary
	}

	paths := make([]string, 0, len(uploads))
	rows := make([]models.ClothingImage, 0, len(uploads))
	for _, upload := range uploads {
		stored, err := s.media.Store(ctx, media.FolderClothing, upload)
		if err != nil {
			for _, p := range paths {
				s.removeFile(ctx, p)
			}
			return nil, err
		}
		paths = append(paths, stored)
		rows = append(rows, models.ClothingImage{
			ClothingID: id,
			ImagePath:  stored,
			IsPrimary:  !hasPrimary && len(rows) == 0,
		})
	}
	if err := s.repo.AddImages(ctx, rows); err != nil {
		for _, p := range paths {
			s.removeFile(ctx, p)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: add clothing images")
	}
	return paths, nil
}

func (s *service) DeleteImage(ctx context.Context, id, imageID uuid.UUID) error {
	var removed string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		image, err := repo.FindImage(ctx, id, imageID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get clothing image")
		}
		if image == nil {
			return pkgerrors.NotFound("image")
		}
		if err := repo.DeleteImage(ctx, image.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete clothing image")
		}
		if image.IsPrimary {
			if err := repo.PromoteFirstImage(ctx, id); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: promote clothing image")
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

func (s *service) removeFile(ctx context.Context, path string) {
	if err := s.media.Remove(ctx, path); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "path", path), "failed to remove clothing image: "+err.Error())
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
