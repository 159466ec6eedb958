package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/wardrop-backend/pkg/enums"
)

// Settings is the single row of shop-wide preferences.
type Settings struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Language  enums.Language `gorm:"not null;default:fr"`
	BrandName string         `gorm:"not null;default:Wardrop"`
	LogoPath  *string
	Currency  string    `gorm:"not null;default:DZD"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (s *Settings) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
