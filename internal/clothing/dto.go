package clothing

import (
	"time"

	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInput is the payload for a new clothing item.
type CreateInput struct {
	Name          string           `json:"name" validate:"required,max=200"`
	Category      string           `json:"category" validate:"required,max=100"`
	Size          string           `json:"size" validate:"required,max=20"`
	Color         string           `json:"color" validate:"required,max=50"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	StockQuantity int              `json:"stock_quantity" validate:"gte=0"`
	Description   *string          `json:"description,omitempty"`
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category      *string          `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Size          *string          `json:"size,omitempty" validate:"omitempty,min=1,max=20"`
	Color         *string          `json:"color,omitempty" validate:"omitempty,min=1,max=50"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	StockQuantity *int             `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	Description   *string          `json:"description,omitempty"`
}

// ListParams filters the clothing list. InStock true keeps items with stock,
// false keeps sold-out items.
type ListParams struct {
	Search   string
	Category string
	Size     string
	InStock  *bool
	pagination.Params
}

type ImageDTO struct {
	ID        uuid.UUID `json:"id"`
	ImagePath string    `json:"image_path"`
	IsPrimary bool      `json:"is_primary"`
}

// ClothingDTO is the API shape of a clothing item.
type ClothingDTO struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Size          string           `json:"size"`
	Color         string           `json:"color"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	StockQuantity int              `json:"stock_quantity"`
	Description   *string          `json:"description"`
	Images        []ImageDTO       `json:"images"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func NewClothingDTO(c *models.Clothing) ClothingDTO {
	images := make([]ImageDTO, len(c.Images))
	for i, img := range c.Images {
		images[i] = ImageDTO{ID: img.ID, ImagePath: img.ImagePath, IsPrimary: img.IsPrimary}
	}
	return ClothingDTO{
		ID:            c.ID,
		Name:          c.Name,
		Category:      c.Category,
		Size:          c.Size,
		Color:         c.Color,
		PurchasePrice: c.PurchasePrice,
		SalePrice:     c.SalePrice,
		StockQuantity: c.StockQuantity,
		Description:   c.Description,
		Images:        images,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func NewClothingDTOs(rows []models.Clothing) []ClothingDTO {
	out := make([]ClothingDTO, len(rows))
	for i := range rows {
		out[i] = NewClothingDTO(&rows[i])
	}
	return out
}
