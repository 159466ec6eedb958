package enums

import "fmt"

// NotificationStatus records the delivery outcome of a message.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

var validNotificationStatuses = []NotificationStatus{
	NotificationStatusPending,
	NotificationStatusSent,
	NotificationStatusFailed,
}

// String implements fmt.Stringer.
func (v NotificationStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known NotificationStatus.
func (v NotificationStatus) IsValid() bool {
	for _, candidate := range validNotificationStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseNotificationStatus converts raw input into a NotificationStatus.
func ParseNotificationStatus(value string) (NotificationStatus, error) {
	for _, candidate := range validNotificationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification status %q", value)
}
