package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
)

// Booking reserves one dress for one client over an inclusive date range.
// Prices are snapshotted from the dress at creation.
type Booking struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ClientID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	DressID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	StartDate     types.Date          `gorm:"type:date;not null;index"`
	EndDate       types.Date          `gorm:"type:date;not null;index"`
	RentalPrice   decimal.Decimal     `gorm:"type:numeric(10,2);not null"`
	DepositAmount decimal.Decimal     `gorm:"type:numeric(10,2);not null"`
	DepositStatus enums.DepositStatus `gorm:"not null;default:pending"`
	BookingStatus enums.BookingStatus `gorm:"not null;default:confirmed;index"`
	Notes         *string
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`

	Client *Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Dress  *Dress  `gorm:"foreignKey:DressID;constraint:OnDelete:CASCADE"`
}

func (b *Booking) BeforeCreate(*gorm.DB) error {
	assignID(&b.ID)
	return nil
}

// Range returns the inclusive rental period.
func (b Booking) Range() types.DateRange {
	return types.DateRange{Start: b.StartDate, End: b.EndDate}
}
