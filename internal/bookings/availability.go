package bookings

import (
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
	"github.com/google/uuid"
)

// DeriveAvailability computes a dress's status from its bookings as of today:
// rented when an active booking of that dress contains today, available otherwise.
func DeriveAvailability(dressID uuid.UUID, today types.Date, bookings []models.Booking) enums.AvailabilityStatus {
	for _, b := range bookings {
		if b.DressID != dressID || !b.BookingStatus.IsActive() {
			continue
		}
		if b.Range().Contains(today) {
			return enums.AvailabilityStatusRented
		}
	}
	return enums.AvailabilityStatusAvailable
}

// ApplyPin keeps a maintenance pin in place over the derived status.
func ApplyPin(current, derived enums.AvailabilityStatus) enums.AvailabilityStatus {
	if current == enums.AvailabilityStatusMaintenance {
		return enums.AvailabilityStatusMaintenance
	}
	return derived
}
