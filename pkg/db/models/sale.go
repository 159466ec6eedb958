package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/wardrop-backend/pkg/types"
)

// Sale records clothing sold to a client.
type Sale struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ClientID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClothingID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null;default:1"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	SaleDate   types.Date      `gorm:"type:date;not null;index"`
	Notes      *string
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	Client   *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Clothing *Clothing `gorm:"foreignKey:ClothingID;constraint:OnDelete:CASCADE"`
}

func (s *Sale) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
