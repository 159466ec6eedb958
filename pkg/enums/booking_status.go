package enums

import "fmt"

// BookingStatus tracks the lifecycle of a dress rental.
type BookingStatus string

const (
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

var validBookingStatuses = []BookingStatus{
	BookingStatusConfirmed,
	BookingStatusInProgress,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

// String implements fmt.Stringer.
func (v BookingStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known BookingStatus.
func (v BookingStatus) IsValid() bool {
	for _, candidate := range validBookingStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseBookingStatus converts raw input into a BookingStatus.
func ParseBookingStatus(value string) (BookingStatus, error) {
	for _, candidate := range validBookingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking status %q", value)
}

// IsActive reports whether the booking still holds its dress.
func (v BookingStatus) IsActive() bool {
	return v == BookingStatusConfirmed || v == BookingStatusInProgress
}

// IsTerminal reports whether no further transition is possible.
func (v BookingStatus) IsTerminal() bool {
	return v == BookingStatusCompleted || v == BookingStatusCancelled
}

// CanTransitionTo reports whether moving from v to next follows
// confirmed -> in_progress -> completed, with cancellation from any active state.
func (v BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if v == next {
		return true
	}
	switch v {
	case BookingStatusConfirmed:
		return next == BookingStatusInProgress || next == BookingStatusCancelled
	case BookingStatusInProgress:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	default:
		return false
	}
}
