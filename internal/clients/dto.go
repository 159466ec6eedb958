package clients

import (
	"time"

	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"github.com/google/uuid"
)

// CreateInput is the payload for a new client.
type CreateInput struct {
	FullName string  `json:"full_name" validate:"required,min=1,max=200"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30,phone"`
	WhatsApp *string `json:"whatsapp,omitempty" validate:"omitempty,max=30,phone"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Notes    *string `json:"notes,omitempty"`
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30,phone"`
	WhatsApp *string `json:"whatsapp,omitempty" validate:"omitempty,max=30,phone"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Notes    *string `json:"notes,omitempty"`
}

// ListParams filters the client list.
type ListParams struct {
	Search string
	pagination.Params
}

// ClientDTO is the API shape of a client.
type ClientDTO struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     *string   `json:"phone"`
	WhatsApp  *string   `json:"whatsapp"`
	Address   *string   `json:"address"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewClientDTO maps the persisted model onto its API shape.
func NewClientDTO(client *models.Client) ClientDTO {
	return ClientDTO{
		ID:        client.ID,
		FullName:  client.FullName,
		Phone:     client.Phone,
		WhatsApp:  client.WhatsApp,
		Address:   client.Address,
		Notes:     client.Notes,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

// NewClientDTOs maps a page of rows.
func NewClientDTOs(rows []models.Client) []ClientDTO {
	out := make([]ClientDTO, len(rows))
	for i := range rows {
		out[i] = NewClientDTO(&rows[i])
	}
	return out
}
