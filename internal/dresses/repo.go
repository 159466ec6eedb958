package dresses

import (
	"context"
	"errors"

	"github.com/angelmondragon/wardrop-backend/internal/repo"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists dresses and their images.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, dress *models.Dress) error
	CreateBatch(ctx context.Context, dresses []models.Dress) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Dress, error)
	List(ctx context.Context, params ListParams) ([]models.Dress, int64, error)
	ListAll(ctx context.Context) ([]models.Dress, error)
	Save(ctx context.Context, dress *models.Dress) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	AddImages(ctx context.Context, images []models.DressImage) error
	FindImage(ctx context.Context, dressID, imageID uuid.UUID) (*models.DressImage, error)
	DeleteImage(ctx context.Context, imageID uuid.UUID) error
	PromoteFirstImage(ctx context.Context, dressID uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a dresses repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, dress *models.Dress) error {
	return r.DB(ctx).Omit("Images").Create(dress).Error
}

func (r *repository) CreateBatch(ctx context.Context, dresses []models.Dress) error {
	if len(dresses) == 0 {
		return nil
	}
	return r.DB(ctx).Omit("Images").Create(&dresses).Error
}

func withImages(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("is_primary DESC").Order("id")
	})
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Dress, error) {
	var dress models.Dress
	if err := withImages(r.DB(ctx)).First(&dress, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dress, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.Dress, int64, error) {
	query := repo.Search(r.DB(ctx).Model(&models.Dress{}), params.Search, "name", "description")
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Size != "" {
		query = query.Where("size = ?", params.Size)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Dress
	ordered := withImages(query).Order("created_at DESC").Order("id DESC")
	if err := repo.Page(ordered, params.Params).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Dress, error) {
	var rows []models.Dress
	if err := r.DB(ctx).Order("name").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Save(ctx context.Context, dress *models.Dress) error {
	return r.DB(ctx).Omit("Images").Save(dress).Error
}

// Delete removes the dress with its bookings and image rows.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dress_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("dress_id = ?", id).Delete(&models.DressImage{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Dress{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (r *repository) AddImages(ctx context.Context, images []models.DressImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&images).Error
}

func (r *repository) FindImage(ctx context.Context, dressID, imageID uuid.UUID) (*models.DressImage, error) {
	var image models.DressImage
	err := r.DB(ctx).First(&image, "id = ? AND dress_id = ?", imageID, dressID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

func (r *repository) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	return r.DB(ctx).Delete(&models.DressImage{}, "id = ?", imageID).Error
}

// PromoteFirstImage marks a remaining image primary when none is.
func (r *repository) PromoteFirstImage(ctx context.Context, dressID uuid.UUID) error {
	var primaries int64
	if err := r.DB(ctx).Model(&models.DressImage{}).
		Where("dress_id = ? AND is_primary = ?", dressID, true).
		Count(&primaries).Error; err != nil {
		return err
	}
	if primaries > 0 {
		return nil
	}
	var first models.DressImage
	err := r.DB(ctx).Where("dress_id = ?", dressID).Order("id").First(&first).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return r.DB(ctx).Model(&models.DressImage{}).Where("id = ?", first.ID).Update("is_primary", true).Error
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB(ctx).Model(&models.Dress{}).Count(&total).Error
	return total, err
}
