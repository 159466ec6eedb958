package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/wardrop-backend/pkg/enums"
)

// Dress is the rentable inventory unit. Status is a cached derivation of
// its active bookings unless pinned to maintenance.
type Dress struct {
	ID            uuid.UUID                `gorm:"type:uuid;primaryKey"`
	Name          string                   `gorm:"not null;index"`
	Category      string                   `gorm:"not null"`
	Size          string                   `gorm:"not null"`
	Color         string                   `gorm:"not null"`
	RentalPrice   decimal.Decimal          `gorm:"type:numeric(10,2);not null"`
	DepositAmount decimal.Decimal          `gorm:"type:numeric(10,2);not null"`
	Status        enums.AvailabilityStatus `gorm:"not null;default:available"`
	Description   *string
	Images        []DressImage `gorm:"foreignKey:DressID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time    `gorm:"autoCreateTime"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime"`
}

func (d *Dress) BeforeCreate(*gorm.DB) error {
	assignID(&d.ID)
	if d.Status == "" {
		d.Status = enums.AvailabilityStatusAvailable
	}
	return nil
}

// DressImage references an uploaded picture of a dress.
type DressImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	DressID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ImagePath string    `gorm:"not null"`
	IsPrimary bool      `gorm:"not null;default:false"`
}

func (i *DressImage) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}
