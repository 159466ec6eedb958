package clients

import (
	"context"
	"errors"

	"github.com/angelmondragon/wardrop-backend/internal/repo"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists clients.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, client *models.Client) error
	CreateBatch(ctx context.Context, clients []models.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context, params ListParams) ([]models.Client, int64, error)
	ListAll(ctx context.Context) ([]models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a clients repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, client *models.Client) error {
	return r.DB(ctx).Create(client).Error
}

func (r *repository) CreateBatch(ctx context.Context, clients []models.Client) error {
	if len(clients) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&clients).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	if err := r.DB(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.Client, int64, error) {
	query := repo.Search(r.DB(ctx).Model(&models.Client{}), params.Search, "full_name", "phone", "whatsapp").
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Client
	if err := repo.Page(query.Order("created_at DESC").Order("id DESC"), params.Params).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Client, error) {
	var rows []models.Client
	if err := r.DB(ctx).Order("full_name").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, client *models.Client) error {
	return r.DB(ctx).Save(client).Error
}

// Delete removes the client with its bookings, sales and notification logs.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []any{&models.Booking{}, &models.Sale{}, &models.NotificationLog{}} {
			if err := tx.Where("client_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Client{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB(ctx).Model(&models.Client{}).Count(&total).Error
	return total, err
}
