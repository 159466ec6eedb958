package bookings

import (
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
	"github.com/google/uuid"
)

// Conflict identifies the existing booking that blocks a requested range.
type Conflict struct {
	BookingID uuid.UUID           `json:"conflicting_booking_id"`
	StartDate types.Date          `json:"start_date"`
	EndDate   types.Date          `json:"end_date"`
	Status    enums.BookingStatus `json:"booking_status"`
}

// AsError renders the conflict as a CONFLICT error carrying the blocking booking.
func (c *Conflict) AsError() error {
	return pkgerrors.Newf(pkgerrors.CodeConflict,
		"dress is already booked from %s to %s (booking %s)", c.StartDate, c.EndDate, c.BookingID).
		WithDetails(map[string]any{
			"conflicting_booking_id": c.BookingID.String(),
			"start_date":             c.StartDate.String(),
			"end_date":               c.EndDate.String(),
		})
}

// Overlaps reports whether two inclusive ranges share a day. A same-day
// hand-off (one ends the day the other starts) overlaps.
func Overlaps(a, b types.DateRange) bool {
	return a.Overlaps(b)
}

// FindConflict returns the first candidate that is not cancelled, is not the
// excluded booking and overlaps rng. Candidates are expected to belong to a
// single dress.
func FindConflict(candidates []models.Booking, rng types.DateRange, exclude *uuid.UUID) *Conflict {
	for _, b := range candidates {
		if b.BookingStatus == enums.BookingStatusCancelled {
			continue
		}
		if exclude != nil && b.ID == *exclude {
			continue
		}
		if Overlaps(b.Range(), rng) {
			return &Conflict{BookingID: b.ID, StartDate: b.StartDate, EndDate: b.EndDate, Status: b.BookingStatus}
		}
	}
	return nil
}

// validateRange rejects incomplete or inverted ranges. Single-day ranges are valid.
func validateRange(start, end types.Date) error {
	if start.IsZero() || end.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start_date and end_date are required")
	}
	if start.After(end) {
		return pkgerrors.New(pkgerrors.CodeValidation, "start_date must be on or before end_date").
			WithDetails(map[string]any{"start_date": start.String(), "end_date": end.String()})
	}
	return nil
}

func rangeOf(start, end types.Date) types.DateRange {
	return types.DateRange{Start: start, End: end}
}
