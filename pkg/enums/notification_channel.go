package enums

import "fmt"

// NotificationChannel is the delivery channel for a client message.
type NotificationChannel string

const (
	NotificationChannelSMS      NotificationChannel = "sms"
	NotificationChannelWhatsApp NotificationChannel = "whatsapp"
)

var validNotificationChannels = []NotificationChannel{
	NotificationChannelSMS,
	NotificationChannelWhatsApp,
}

// String implements fmt.Stringer.
func (v NotificationChannel) String() string {
	return string(v)
}

// IsValid reports whether the value is a known NotificationChannel.
func (v NotificationChannel) IsValid() bool {
	for _, candidate := range validNotificationChannels {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseNotificationChannel converts raw input into a NotificationChannel.
func ParseNotificationChannel(value string) (NotificationChannel, error) {
	for _, candidate := range validNotificationChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification channel %q", value)
}
