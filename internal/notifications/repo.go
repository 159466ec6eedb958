package notifications

import (
	"context"
	"errors"

	"github.com/angelmondragon/wardrop-backend/internal/repo"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists notification attempts and reads their recipients.
type Repository interface {
	Create(ctx context.Context, log *models.NotificationLog) error
	List(ctx context.Context, params LogListParams) ([]models.NotificationLog, int64, error)
	FindClient(ctx context.Context, id uuid.UUID) (*models.Client, error)
	FindBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, log *models.NotificationLog) error {
	return r.DB(ctx).Omit("Client").Create(log).Error
}

func (r *repository) List(ctx context.Context, params LogListParams) ([]models.NotificationLog, int64, error) {
	query := r.DB(ctx).Model(&models.NotificationLog{})
	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.NotificationLog
	if err := repo.Page(query.Order("sent_at DESC").Order("id DESC"), params.Params).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) FindClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	if err := r.DB(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *repository) FindBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.DB(ctx).Preload("Client").Preload("Dress").First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}
