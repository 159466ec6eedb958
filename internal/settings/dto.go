package settings

import (
	"time"

	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/google/uuid"
)

const (
	DefaultLanguage  = enums.LanguageFrench
	DefaultBrandName = "Wardrop"
	DefaultCurrency  = "DZD"
)

// UpdateInput is a partial settings update.
type UpdateInput struct {
	Language  *enums.Language `json:"language,omitempty" validate:"omitempty,oneof=fr ar"`
	BrandName *string         `json:"brand_name,omitempty" validate:"omitempty,min=1,max=100"`
	Currency  *string         `json:"currency,omitempty" validate:"omitempty,min=1,max=10"`
}

// SettingsDTO is the API shape of the settings row.
type SettingsDTO struct {
	ID        uuid.UUID      `json:"id"`
	Language  enums.Language `json:"language"`
	BrandName string         `json:"brand_name"`
	LogoPath  *string        `json:"logo_path"`
	Currency  string         `json:"currency"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func NewSettingsDTO(s *models.Settings) SettingsDTO {
	return SettingsDTO{
		ID:        s.ID,
		Language:  s.Language,
		BrandName: s.BrandName,
		LogoPath:  s.LogoPath,
		Currency:  s.Currency,
		UpdatedAt: s.UpdatedAt,
	}
}
