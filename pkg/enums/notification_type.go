package enums

import "fmt"

// NotificationType classifies outbound client messages.
type NotificationType string

const (
	NotificationTypeBookingConfirmation NotificationType = "booking_confirmation"
	NotificationTypeReturnReminder      NotificationType = "return_reminder"
	NotificationTypeThankYou            NotificationType = "thank_you"
	NotificationTypeGeneral             NotificationType = "general"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeBookingConfirmation,
	NotificationTypeReturnReminder,
	NotificationTypeThankYou,
	NotificationTypeGeneral,
}

// String implements fmt.Stringer.
func (v NotificationType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known NotificationType.
func (v NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
