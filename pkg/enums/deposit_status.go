package enums

import "fmt"

// DepositStatus tracks what happened to the security deposit of a booking.
type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "pending"
	DepositStatusPaid      DepositStatus = "paid"
	DepositStatusReturned  DepositStatus = "returned"
	DepositStatusForfeited DepositStatus = "forfeited"
)

var validDepositStatuses = []DepositStatus{
	DepositStatusPending,
	DepositStatusPaid,
	DepositStatusReturned,
	DepositStatusForfeited,
}

// String implements fmt.Stringer.
func (v DepositStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known DepositStatus.
func (v DepositStatus) IsValid() bool {
	for _, candidate := range validDepositStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseDepositStatus converts raw input into a DepositStatus.
func ParseDepositStatus(value string) (DepositStatus, error) {
	for _, candidate := range validDepositStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deposit status %q", value)
}
