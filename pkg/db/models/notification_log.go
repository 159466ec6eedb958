package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/wardrop-backend/pkg/enums"
)

// NotificationLog records every outbound message attempt.
type NotificationLog struct {
	ID          uuid.UUID                 `gorm:"type:uuid;primaryKey"`
	ClientID    uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Type        enums.NotificationType    `gorm:"not null"`
	Channel     enums.NotificationChannel `gorm:"not null"`
	Message     string                    `gorm:"not null"`
	Status      enums.NotificationStatus  `gorm:"not null;default:pending"`
	ProviderSID *string                   `gorm:"column:provider_sid"`
	Error       *string
	SentAt      time.Time `gorm:"autoCreateTime"`

	Client *Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

func (n *NotificationLog) BeforeCreate(*gorm.DB) error {
	assignID(&n.ID)
	return nil
}
