package notifications

import (
	"time"

	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"github.com/google/uuid"
)

// SendInput is a free-form message to one client.
type SendInput struct {
	ClientID uuid.UUID                 `json:"client_id" validate:"required"`
	Message  string                    `json:"message" validate:"required,max=1600"`
	Channel  enums.NotificationChannel `json:"channel,omitempty" validate:"omitempty,oneof=sms whatsapp"`
	Type     enums.NotificationType    `json:"notification_type,omitempty" validate:"omitempty,oneof=booking_confirmation return_reminder thank_you general"`
}

// SendResult reports the delivery outcome. Provider failures are outcomes, not errors.
type SendResult struct {
	Success bool   `json:"success"`
	SID     string `json:"sid,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LogListParams filters the notification log.
type LogListParams struct {
	ClientID *uuid.UUID
	pagination.Params
}

// LogDTO is the API shape of a notification log row.
type LogDTO struct {
	ID          uuid.UUID                 `json:"id"`
	ClientID    uuid.UUID                 `json:"client_id"`
	Type        enums.NotificationType    `json:"type"`
	Channel     enums.NotificationChannel `json:"channel"`
	Message     string                    `json:"message"`
	Status      enums.NotificationStatus  `json:"status"`
	ProviderSID *string                   `json:"provider_sid"`
	Error       *string                   `json:"error"`
	SentAt      time.Time                 `json:"sent_at"`
}

func NewLogDTO(log models.NotificationLog) LogDTO {
	return LogDTO{
		ID:          log.ID,
		ClientID:    log.ClientID,
		Type:        log.Type,
		Channel:     log.Channel,
		Message:     log.Message,
		Status:      log.Status,
		ProviderSID: log.ProviderSID,
		Error:       log.Error,
		SentAt:      log.SentAt,
	}
}

func NewLogDTOs(rows []models.NotificationLog) []LogDTO {
	out := make([]LogDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewLogDTO(row))
	}
	return out
}
