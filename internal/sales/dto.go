package sales

import (
	"time"

	"github.com/angelmondragon/wardrop-backend/internal/repo"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInput is the payload for a new sale. UnitPrice defaults to the
// item's sale price and SaleDate to today.
type CreateInput struct {
	ClientID   uuid.UUID        `json:"client_id" validate:"required"`
	ClothingID uuid.UUID        `json:"clothing_id" validate:"required"`
	Quantity   int              `json:"quantity" validate:"gte=1"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	SaleDate   types.Date       `json:"sale_date"`
	Notes      *string          `json:"notes,omitempty"`
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	Quantity  *int             `json:"quantity,omitempty" validate:"omitempty,gte=1"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	SaleDate  *types.Date      `json:"sale_date,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
}

// ListParams filters and orders the sales list.
type ListParams struct {
	ClientID   *uuid.UUID
	ClothingID *uuid.UUID
	From       types.Date
	To         types.Date
	Sort       repo.Sort
	pagination.Params
}

// BulkDeleteInput removes several sales at once.
type BulkDeleteInput struct {
	IDs          []uuid.UUID `json:"ids" validate:"required,min=1"`
	RestoreStock *bool       `json:"restore_stock,omitempty"`
}

// BulkDeleteResult reports what a bulk delete touched.
type BulkDeleteResult struct {
	DeletedCount  int  `json:"deleted_count"`
	StockRestored bool `json:"stock_restored"`
}

// SaleDTO is the API shape of a sale with client and item summaries.
type SaleDTO struct {
	ID         uuid.UUID        `json:"id"`
	ClientID   uuid.UUID        `json:"client_id"`
	ClothingID uuid.UUID        `json:"clothing_id"`
	Quantity   int              `json:"quantity"`
	UnitPrice  decimal.Decimal  `json:"unit_price"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	SaleDate   types.Date       `json:"sale_date"`
	Notes      *string          `json:"notes"`
	CreatedAt  time.Time        `json:"created_at"`
	Client     *ClientSummary   `json:"client,omitempty"`
	Clothing   *ClothingSummary `json:"clothing,omitempty"`
}

type ClientSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Phone    *string   `json:"phone"`
}

type ClothingSummary struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Size          string          `json:"size"`
	Color         string          `json:"color"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	StockQuantity int             `json:"stock_quantity"`
}

// NewSaleDTO maps the persisted model onto its API shape.
func NewSaleDTO(s *models.Sale) SaleDTO {
	dto := SaleDTO{
		ID:         s.ID,
		ClientID:   s.ClientID,
		ClothingID: s.ClothingID,
		Quantity:   s.Quantity,
		UnitPrice:  s.UnitPrice,
		TotalPrice: s.TotalPrice,
		SaleDate:   s.SaleDate,
		Notes:      s.Notes,
		CreatedAt:  s.CreatedAt,
	}
	if s.Client != nil {
		dto.Client = &ClientSummary{ID: s.Client.ID, FullName: s.Client.FullName, Phone: s.Client.Phone}
	}
	if s.Clothing != nil {
		dto.Clothing = &ClothingSummary{
			ID:            s.Clothing.ID,
			Name:          s.Clothing.Name,
			Size:          s.Clothing.Size,
			Color:         s.Clothing.Color,
			SalePrice:     s.Clothing.SalePrice,
			StockQuantity: s.Clothing.StockQuantity,
		}
	}
	return dto
}

func NewSaleDTOs(rows []models.Sale) []SaleDTO {
	out := make([]SaleDTO, len(rows))
	for i := range rows {
		out[i] = NewSaleDTO(&rows[i])
	}
	return out
}
