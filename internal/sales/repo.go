package sales

import (
	"context"
	"errors"

	"github.com/angelmondragon/wardrop-backend/internal/repo"
	"github.com/angelmondragon/wardrop-backend/pkg/db"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var sortColumns = map[string]string{
	"sale_date":   "sale_date",
	"total_price": "total_price",
	"created_at":  "created_at",
}

var defaultSort = repo.Sort{Field: "sale_date", Desc: true}

// Repository persists sales and the stock they consume.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sale *models.Sale) error
	Save(ctx context.Context, sale *models.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Sale, error)
	List(ctx context.Context, params ListParams) ([]models.Sale, int64, error)
	ListBetween(ctx context.Context, from, to types.Date) ([]models.Sale, error)
	Delete(ctx context.Context, ids []uuid.UUID) (int64, error)
	LockClothing(ctx context.Context, id uuid.UUID) (*models.Clothing, error)
	AdjustStock(ctx context.Context, clothingID uuid.UUID, delta int) (bool, error)
	ClientExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a sales repository bound to the provided database.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(conn)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, sale *models.Sale) error {
	return r.DB(ctx).Omit("Client", "Clothing").Create(sale).Error
}

func (r *repository) Save(ctx context.Context, sale *models.Sale) error {
	return r.DB(ctx).Omit("Client", "Clothing").Save(sale).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := r.DB(ctx).Preload("Client").Preload("Clothing").First(&sale, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Sale, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Sale
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.Sale, int64, error) {
	query := r.DB(ctx).Model(&models.Sale{})
	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}
	if params.ClothingID != nil {
		query = query.Where("clothing_id = ?", *params.ClothingID)
	}
	if !params.From.IsZero() {
		query = query.Where("sale_date >= ?", params.From)
	}
	if !params.To.IsZero() {
		query = query.Where("sale_date <= ?", params.To)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Sale
	ordered := repo.Order(query.Preload("Client").Preload("Clothing"), params.Sort, sortColumns, defaultSort)
	if err := repo.Page(ordered, params.Params).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListBetween returns sales dated within [from, to], newest first; zero bounds are open.
func (r *repository) ListBetween(ctx context.Context, from, to types.Date) ([]models.Sale, error) {
	query := r.DB(ctx).Preload("Client").Preload("Clothing")
	if !from.IsZero() {
		query = query.Where("sale_date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("sale_date <= ?", to)
	}
	var rows []models.Sale
	if err := query.Order("sale_date DESC").Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Delete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB(ctx).Where("id IN ?", ids).Delete(&models.Sale{})
	return res.RowsAffected, res.Error
}

func (r *repository) LockClothing(ctx context.Context, id uuid.UUID) (*models.Clothing, error) {
	var item models.Clothing
	if err := db.ForUpdate(r.DB(ctx)).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// AdjustStock adds delta to the item's stock unless that would drop it below
// zero. It reports false when the guard rejected the change.
func (r *repository) AdjustStock(ctx context.Context, clothingID uuid.UUID, delta int) (bool, error) {
	res := r.DB(ctx).
		Model(&models.Clothing{}).
		Where("id = ? AND stock_quantity + ? >= 0", clothingID, delta).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ClientExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Client{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
