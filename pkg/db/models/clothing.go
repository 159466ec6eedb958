package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Clothing is a stocked item sold by quantity.
type Clothing struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name          string           `gorm:"not null;index"`
	Category      string           `gorm:"not null"`
	Size          string           `gorm:"not null"`
	Color         string           `gorm:"not null"`
	PurchasePrice *decimal.Decimal `gorm:"type:numeric(10,2)"`
	SalePrice     decimal.Decimal  `gorm:"type:numeric(10,2);not null"`
	StockQuantity int              `gorm:"not null;default:0"`
	Description   *string
	Images        []ClothingImage `gorm:"foreignKey:ClothingID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

func (Clothing) TableName() string { return "clothing" }

func (c *Clothing) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// ClothingImage references an uploaded picture of a clothing item.
type ClothingImage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClothingID uuid.UUID `gorm:"type:uuid;not null;index"`
	ImagePath  string    `gorm:"not null"`
	IsPrimary  bool      `gorm:"not null;default:false"`
}

func (i *ClothingImage) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}
