package enums

import "fmt"

// AvailabilityStatus is the cached availability of a dress.
type AvailabilityStatus string

const (
	AvailabilityStatusAvailable   AvailabilityStatus = "available"
	AvailabilityStatusRented      AvailabilityStatus = "rented"
	AvailabilityStatusMaintenance AvailabilityStatus = "maintenance"
)

var validAvailabilityStatuses = []AvailabilityStatus{
	AvailabilityStatusAvailable,
	AvailabilityStatusRented,
	AvailabilityStatusMaintenance,
}

// String implements fmt.Stringer.
func (v AvailabilityStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known AvailabilityStatus.
func (v AvailabilityStatus) IsValid() bool {
	for _, candidate := range validAvailabilityStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseAvailabilityStatus converts raw input into a AvailabilityStatus.
func ParseAvailabilityStatus(value string) (AvailabilityStatus, error) {
	for _, candidate := range validAvailabilityStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid availability status %q", value)
}
