package dresses

import (
	"time"

	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInput is the payload for a new dress.
type CreateInput struct {
	Name          string                    `json:"name" validate:"required,max=200"`
	Category      string                    `json:"category" validate:"required,max=100"`
	Size          string                    `json:"size" validate:"required,max=20"`
	Color         string                    `json:"color" validate:"required,max=50"`
	RentalPrice   decimal.Decimal           `json:"rental_price"`
	DepositAmount decimal.Decimal           `json:"deposit_amount"`
	Status        *enums.AvailabilityStatus `json:"status,omitempty"`
	Description   *string                   `json:"description,omitempty"`
}

// UpdateInput carries a partial update. Status maintenance pins the dress;
// available or rented clears the pin back to the booking-derived value.
type UpdateInput struct {
	Name          *string                   `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category      *string                   `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Size          *string                   `json:"size,omitempty" validate:"omitempty,min=1,max=20"`
	Color         *string                   `json:"color,omitempty" validate:"omitempty,min=1,max=50"`
	RentalPrice   *decimal.Decimal          `json:"rental_price,omitempty"`
	DepositAmount *decimal.Decimal          `json:"deposit_amount,omitempty"`
	Status        *enums.AvailabilityStatus `json:"status,omitempty"`
	Description   *string                   `json:"description,omitempty"`
}

// ListParams filters the dress list.
type ListParams struct {
	Search   string
	Status   *enums.AvailabilityStatus
	Category string
	Size     string
	pagination.Params
}

// ImageDTO is the API shape of a dress picture.
type ImageDTO struct {
	ID        uuid.UUID `json:"id"`
	ImagePath string    `json:"image_path"`
	IsPrimary bool      `json:"is_primary"`
}

// DressDTO is the API shape of a dress.
type DressDTO struct {
	ID            uuid.UUID                `json:"id"`
	Name          string                   `json:"name"`
	Category      string                   `json:"category"`
	Size          string                   `json:"size"`
	Color         string                   `json:"color"`
	RentalPrice   decimal.Decimal          `json:"rental_price"`
	DepositAmount decimal.Decimal          `json:"deposit_amount"`
	Status        enums.AvailabilityStatus `json:"status"`
	Description   *string                  `json:"description"`
	Images        []ImageDTO               `json:"images"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// NewDressDTO maps the persisted model onto its API shape.
func NewDressDTO(d *models.Dress) DressDTO {
	images := make([]ImageDTO, len(d.Images))
	for i, img := range d.Images {
		images[i] = ImageDTO{ID: img.ID, ImagePath: img.ImagePath, IsPrimary: img.IsPrimary}
	}
	return DressDTO{
		ID:            d.ID,
		Name:          d.Name,
		Category:      d.Category,
		Size:          d.Size,
		Color:         d.Color,
		RentalPrice:   d.RentalPrice,
		DepositAmount: d.DepositAmount,
		Status:        d.Status,
		Description:   d.Description,
		Images:        images,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// NewDressDTOs maps a page of rows.
func NewDressDTOs(rows []models.Dress) []DressDTO {
	out := make([]DressDTO, len(rows))
	for i := range rows {
		out[i] = NewDressDTO(&rows[i])
	}
	return out
}
