package enums

import "fmt"

// EarningsPeriod is the bucket size of the earnings report.
type EarningsPeriod string

const (
	EarningsPeriodDaily   EarningsPeriod = "daily"
	EarningsPeriodWeekly  EarningsPeriod = "weekly"
	EarningsPeriodMonthly EarningsPeriod = "monthly"
	EarningsPeriodYearly  EarningsPeriod = "yearly"
)

var validEarningsPeriods = []EarningsPeriod{
	EarningsPeriodDaily,
	EarningsPeriodWeekly,
	EarningsPeriodMonthly,
	EarningsPeriodYearly,
}

// String implements fmt.Stringer.
func (v EarningsPeriod) String() string {
	return string(v)
}

// IsValid reports whether the value is a known EarningsPeriod.
func (v EarningsPeriod) IsValid() bool {
	for _, candidate := range validEarningsPeriods {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseEarningsPeriod converts raw input into a EarningsPeriod.
func ParseEarningsPeriod(value string) (EarningsPeriod, error) {
	for _, candidate := range validEarningsPeriods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid earnings period %q", value)
}
