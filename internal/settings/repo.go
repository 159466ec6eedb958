package settings

import (
	"context"

	"github.com/angelmondragon/wardrop-backend/internal/repo"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// singletonID pins the one settings row so concurrent first reads cannot create two.
var singletonID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Repository loads and stores the settings row.
type Repository interface {
	GetOrCreate(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
}

type repository struct {
	repo.Base
}

// NewRepository returns a settings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) GetOrCreate(ctx context.Context) (*models.Settings, error) {
	defaults := &models.Settings{
		ID:        singletonID,
		Language:  DefaultLanguage,
		BrandName: DefaultBrandName,
		Currency:  DefaultCurrency,
	}
	if err := r.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(defaults).Error; err != nil {
		return nil, err
	}
	var row models.Settings
	if err := r.DB(ctx).First(&row, "id = ?", singletonID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Save(ctx context.Context, settings *models.Settings) error {
	return r.DB(ctx).Save(settings).Error
}
