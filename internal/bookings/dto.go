package bookings

import (
	"time"

	"github.com/angelmondragon/wardrop-backend/internal/repo"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInput is the payload for a new booking. Prices default to the dress's
// current rental price and deposit.
type CreateInput struct {
	ClientID      uuid.UUID            `json:"client_id" validate:"required"`
	DressID       uuid.UUID            `json:"dress_id" validate:"required"`
	StartDate     types.Date           `json:"start_date"`
	EndDate       types.Date           `json:"end_date"`
	RentalPrice   *decimal.Decimal     `json:"rental_price,omitempty"`
	DepositAmount *decimal.Decimal     `json:"deposit_amount,omitempty"`
	DepositStatus *enums.DepositStatus `json:"deposit_status,omitempty"`
	BookingStatus *enums.BookingStatus `json:"booking_status,omitempty"`
	Notes         *string              `json:"notes,omitempty"`
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	ClientID      *uuid.UUID           `json:"client_id,omitempty"`
	DressID       *uuid.UUID           `json:"dress_id,omitempty"`
	StartDate     *types.Date          `json:"start_date,omitempty"`
	EndDate       *types.Date          `json:"end_date,omitempty"`
	RentalPrice   *decimal.Decimal     `json:"rental_price,omitempty"`
	DepositAmount *decimal.Decimal     `json:"deposit_amount,omitempty"`
	DepositStatus *enums.DepositStatus `json:"deposit_status,omitempty"`
	BookingStatus *enums.BookingStatus `json:"booking_status,omitempty"`
	Notes         *string              `json:"notes,omitempty"`
}

// ListParams filters and orders the booking list.
type ListParams struct {
	Status        *enums.BookingStatus
	DepositStatus *enums.DepositStatus
	ClientID      *uuid.UUID
	DressID       *uuid.UUID
	StartFrom     types.Date
	EndTo         types.Date
	Sort          repo.Sort
	pagination.Params
}

// CalendarParams selects bookings intersecting a window.
type CalendarParams struct {
	Start   types.Date
	End     types.Date
	DressID *uuid.UUID
}

// CalendarEvent is a booking projected for calendar views.
type CalendarEvent struct {
	ID         uuid.UUID           `json:"id"`
	Title      string              `json:"title"`
	Start      types.Date          `json:"start"`
	End        types.Date          `json:"end"`
	Color      string              `json:"color"`
	Status     enums.BookingStatus `json:"status"`
	ClientName string              `json:"client_name"`
	DressName  string              `json:"dress_name"`
}

// SweepResult lists the bookings moved by one lifecycle sweep.
type SweepResult struct {
	PromotedToInProgress []uuid.UUID `json:"promoted_to_in_progress"`
	Completed            []uuid.UUID `json:"completed"`
}

var calendarColors = map[enums.BookingStatus]string{
	enums.BookingStatusConfirmed:  "#10b981",
	enums.BookingStatusInProgress: "#f59e0b",
	enums.BookingStatusCompleted:  "#6366f1",
}

const fallbackCalendarColor = "#94a3b8"

// CalendarColor maps a status onto its display colour.
func CalendarColor(status enums.BookingStatus) string {
	if c, ok := calendarColors[status]; ok {
		return c
	}
	return fallbackCalendarColor
}

// BookingDTO is the API shape of a booking with its client and dress summaries.
type BookingDTO struct {
	ID            uuid.UUID           `json:"id"`
	ClientID      uuid.UUID           `json:"client_id"`
	DressID       uuid.UUID           `json:"dress_id"`
	StartDate     types.Date          `json:"start_date"`
	EndDate       types.Date          `json:"end_date"`
	RentalPrice   decimal.Decimal     `json:"rental_price"`
	DepositAmount decimal.Decimal     `json:"deposit_amount"`
	DepositStatus enums.DepositStatus `json:"deposit_status"`
	BookingStatus enums.BookingStatus `json:"booking_status"`
	Notes         *string             `json:"notes"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Client        *ClientSummary      `json:"client,omitempty"`
	Dress         *DressSummary       `json:"dress,omitempty"`
}

type ClientSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Phone    *string   `json:"phone"`
	WhatsApp *string   `json:"whatsapp"`
}

type DressSummary struct {
	ID     uuid.UUID                `json:"id"`
	Name   string                   `json:"name"`
	Size   string                   `json:"size"`
	Color  string                   `json:"color"`
	Status enums.AvailabilityStatus `json:"status"`
}

// NewBookingDTO maps the persisted model onto its API shape.
func NewBookingDTO(b *models.Booking) BookingDTO {
	dto := BookingDTO{
		ID:            b.ID,
		ClientID:      b.ClientID,
		DressID:       b.DressID,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		RentalPrice:   b.RentalPrice,
		DepositAmount: b.DepositAmount,
		DepositStatus: b.DepositStatus,
		BookingStatus: b.BookingStatus,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.Client != nil {
		dto.Client = &ClientSummary{ID: b.Client.ID, FullName: b.Client.FullName, Phone: b.Client.Phone, WhatsApp: b.Client.WhatsApp}
	}
	if b.Dress != nil {
		dto.Dress = &DressSummary{ID: b.Dress.ID, Name: b.Dress.Name, Size: b.Dress.Size, Color: b.Dress.Color, Status: b.Dress.Status}
	}
	return dto
}

// NewBookingDTOs maps a page of rows.
func NewBookingDTOs(rows []models.Booking) []BookingDTO {
	out := make([]BookingDTO, len(rows))
	for i := range rows {
		out[i] = NewBookingDTO(&rows[i])
	}
	return out
}
