package sales

import (
	"context"
	"time"

	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service records clothing sales against stock.
type Service interface {
	List(ctx context.Context, params ListParams) (pagination.Page[models.Sale], error)
	Get(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	Create(ctx context.Context, input CreateInput) (*models.Sale, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Sale, error)
	Delete(ctx context.Context, id uuid.UUID, restoreStock bool) error
	BulkDelete(ctx context.Context, input BulkDeleteInput) (BulkDeleteResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
	loc  *time.Location
	now  func() time.Time
}

// NewService wires the sales service. Default sale dates are taken in loc.
func NewService(repo Repository, tx txRunner, loc *time.Location) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sales repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, tx: tx, loc: loc, now: time.Now}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (pagination.Page[models.Sale], error) {
	params.Params = params.Params.Normalize()
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[models.Sale]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sales")
	}
	return pagination.NewPage(rows, total, params.Params), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get sale")
	}
	if sale == nil {
		return nil, pkgerrors.NotFound("sale")
	}
	return sale, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Sale, error) {
	if input.ClientID == uuid.Nil || input.ClothingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client_id and clothing_id are required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_price cannot be negative")
	}

	var saleID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := repo.ClientExists(ctx, input.ClientID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check client")
		}
		if !exists {
			return pkgerrors.NotFound("client")
		}

		item, err := repo.LockClothing(ctx, input.ClothingID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock clothing")
		}
		if item == nil {
			return pkgerrors.NotFound("clothing item")
		}
		if err := takeStock(ctx, repo, item, input.Quantity); err != nil {
			return err
		}

		unit := item.SalePrice
		if input.UnitPrice != nil {
			unit = *input.UnitPrice
		}
		saleDate := input.SaleDate
		if saleDate.IsZero() {
			saleDate = types.Today(s.now(), s.loc)
		}
		sale := &models.Sale{
			ClientID:   input.ClientID,
			ClothingID: item.ID,
			Quantity:   input.Quantity,
			UnitPrice:  unit,
			TotalPrice: lineTotal(unit, input.Quantity),
			SaleDate:   saleDate,
			Notes:      input.Notes,
		}
		if err := repo.Create(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create sale")
		}
		saleID = sale.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, saleID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Sale, error) {
	if input.Quantity != nil && *input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_price cannot be negative")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		sale, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get sale")
		}
		if sale == nil {
			return pkgerrors.NotFound("sale")
		}
		sale.Client, sale.Clothing = nil, nil

		if input.Quantity != nil && *input.Quantity != sale.Quantity {
			diff := *input.Quantity - sale.Quantity
			item, err := repo.LockClothing(ctx, sale.ClothingID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock clothing")
			}
			if item != nil {
				if diff > 0 {
					if err := takeStock(ctx, repo, item, diff); err != nil {
						return err
					}
				} else if _, err := repo.AdjustStock(ctx, item.ID, -diff); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restore stock")
				}
			}
			sale.Quantity = *input.Quantity
		}
		if input.UnitPrice != nil {
			sale.UnitPrice = *input.UnitPrice
		}
		if input.SaleDate != nil && !input.SaleDate.IsZero() {
			sale.SaleDate = *input.SaleDate
		}
		if input.Notes != nil {
			sale.Notes = input.Notes
		}
		sale.TotalPrice = lineTotal(sale.UnitPrice, sale.Quantity)

		if err := repo.Save(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update sale")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, restoreStock bool) error {
	res, err := s.deleteMany(ctx, []uuid.UUID{id}, restoreStock)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return pkgerrors.NotFound("sale")
	}
	return nil
}

// BulkDelete removes the listed sales; restore_stock defaults to true.
// Unknown ids are skipped.
func (s *service) BulkDelete(ctx context.Context, input BulkDeleteInput) (BulkDeleteResult, error) {
	if len(input.IDs) == 0 {
		return BulkDeleteResult{}, pkgerrors.New(pkgerrors.CodeValidation, "ids are required")
	}
	restore := true
	if input.RestoreStock != nil {
		restore = *input.RestoreStock
	}
	return s.deleteMany(ctx, input.IDs, restore)
}

func (s *service) deleteMany(ctx context.Context, ids []uuid.UUID, restoreStock bool) (BulkDeleteResult, error) {
	result := BulkDeleteResult{StockRestored: restoreStock}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if restoreStock {
			rows, err := repo.FindByIDs(ctx, ids)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load sales")
			}
			for _, sale := range rows {
				// a vanished item has nothing to restore
				if _, err := repo.AdjustStock(ctx, sale.ClothingID, sale.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restore stock")
				}
			}
		}
		deleted, err := repo.Delete(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete sales")
		}
		result.DeletedCount = int(deleted)
		return nil
	})
	if err != nil {
		return BulkDeleteResult{}, err
	}
	return result, nil
}

// takeStock removes quantity units from item or fails with the available count.
func takeStock(ctx context.Context, repo Repository, item *models.Clothing, quantity int) error {
	insufficient := func(available int) error {
		return pkgerrors.Newf(pkgerrors.CodeStateConflict, "insufficient stock, available: %d", available).
			WithDetails(map[string]any{"clothing_id": item.ID.String(), "available": available, "requested": quantity})
	}
	if item.StockQuantity < quantity {
		return insufficient(item.StockQuantity)
	}
	ok, err := repo.AdjustStock(ctx, item.ID, -quantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deduct stock")
	}
	if !ok {
		return insufficient(item.StockQuantity)
	}
	item.StockQuantity -= quantity
	return nil
}

func lineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}
