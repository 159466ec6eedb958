package clothing

import (
	"context"
	"errors"

	"github.com/angelmondragon/wardrop-backend/internal/repo"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists clothing items and their images.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.Clothing) error
	CreateBatch(ctx context.Context, items []models.Clothing) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Clothing, error)
	List(ctx context.Context, params ListParams) ([]models.Clothing, int64, error)
	ListAll(ctx context.Context) ([]models.Clothing, error)
	Save(ctx context.Context, item *models.Clothing) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	AddImages(ctx context.Context, images []models.ClothingImage) error
	FindImage(ctx context.Context, clothingID, imageID uuid.UUID) (*models.ClothingImage, error)
	DeleteImage(ctx context.Context, imageID uuid.UUID) error
	PromoteFirstImage(ctx context.Context, clothingID uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a clothing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, item *models.Clothing) error {
	return r.DB(ctx).Omit("Images").Create(item).Error
}

func (r *repository) CreateBatch(ctx context.Context, items []models.Clothing) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB(ctx).Omit("Images").Create(&items).Error
}

func withImages(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("is_primary DESC").Order("id")
	})
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Clothing, error) {
	var item models.Clothing
	if err := withImages(r.DB(ctx)).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.Clothing, int64, error) {
	query := repo.Search(r.DB(ctx).Model(&models.Clothing{}), params.Search, "name", "description")
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Size != "" {
		query = query.Where("size = ?", params.Size)
	}
	if params.InStock != nil {
		if *params.InStock {
			query = query.Where("stock_quantity > 0")
		} else {
			query = query.Where("stock_quantity = 0")
		}
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Clothing
	ordered := withImages(query).Order("created_at DESC").Order("id DESC")
	if err := repo.Page(ordered, params.Params).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Clothing, error) {
	var rows []models.Clothing
	if err := r.DB(ctx).Order("name").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Save(ctx context.Context, item *models.Clothing) error {
	return r.DB(ctx).Omit("Images").Save(item).Error
}

// Delete removes the item with its sales and image rows.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("clothing_id = ?", id).Delete(&models.Sale{}).Error; err != nil {
			return err
		}
		if err := tx.Where("clothing_id = ?", id).Delete(&models.ClothingImage{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Clothing{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (r *repository) AddImages(ctx context.Context, images []models.ClothingImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&images).Error
}

func (r *repository) FindImage(ctx context.Context, clothingID, imageID uuid.UUID) (*models.ClothingImage, error) {
	var image models.ClothingImage
	err := r.DB(ctx).First(&image, "id = ? AND clothing_id = ?", imageID, clothingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

func (r *repository) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	return r.DB(ctx).Delete(&models.ClothingImage{}, "id = ?", imageID).Error
}

func (r *repository) PromoteFirstImage(ctx context.Context, clothingID uuid.UUID) error {
	var primaries int64
	if err := r.DB(ctx).Model(&models.ClothingImage{}).
		Where("clothing_id = ? AND is_primary = ?", clothingID, true).
		Count(&primaries).Error; err != nil {
		return err
	}
	if primaries > 0 {
		return nil
	}
	var first models.ClothingImage
	err := r.DB(ctx).Where("clothing_id = ?", clothingID).Order("id").First(&first).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return r.DB(ctx).Model(&models.ClothingImage{}).Where("id = ?", first.ID).Update("is_primary", true).Error
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB(ctx).Model(&models.Clothing{}).Count(&total).Error
	return total, err
}
