package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/wardrop-backend/internal/bookings"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
)

type stubBookingService struct {
	bookings.Service
	list     func(ctx context.Context, params bookings.ListParams) (pagination.Page[models.Booking], error)
	calendar func(ctx context.Context, params bookings.CalendarParams) ([]bookings.CalendarEvent, error)
	create   func(ctx context.Context, input bookings.CreateInput) (*models.Booking, error)
	cancel   func(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

func (s stubBookingService) List(ctx context.Context, params bookings.ListParams) (pagination.Page[models.Booking], error) {
	return s.list(ctx, params)
}

func (s stubBookingService) Calendar(ctx context.Context, params bookings.CalendarParams) ([]bookings.CalendarEvent, error) {
	return s.calendar(ctx, params)
}

func (s stubBookingService) Create(ctx context.Context, input bookings.CreateInput) (*models.Booking, error) {
	return s.create(ctx, input)
}

func (s stubBookingService) Cancel(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.cancel(ctx, id)
}

func TestBookingsListParsesFiltersAndSort(t *testing.T) {
	clientID := uuid.New()
	var captured bookings.ListParams
	svc := stubBookingService{list: func(_ context.Context, p bookings.ListParams) (pagination.Page[models.Booking], error) {
		captured = p
		return pagination.NewPage[models.Booking](nil, 0, p.Params), nil
	}}

	url := "/api/v1/bookings?status=confirmed&deposit_status=paid&client_id=" + clientID.String() +
		"&start_date=2025-06-01&end_date=2025-06-30&sort_by=rental_price&sort_order=asc"
	rec := httptest.NewRecorder()
	BookingsList(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Status == nil || *captured.Status != enums.BookingStatusConfirmed {
		t.Fatalf("unexpected status %v", captured.Status)
	}
	if captured.DepositStatus == nil || *captured.DepositStatus != enums.DepositStatusPaid {
		t.Fatalf("unexpected deposit status %v", captured.DepositStatus)
	}
	if captured.ClientID == nil || *captured.ClientID != clientID || captured.DressID != nil {
		t.Fatalf("unexpected ids %v %v", captured.ClientID, captured.DressID)
	}
	if captured.StartFrom != types.NewDate(2025, 6, 1) || captured.EndTo != types.NewDate(2025, 6, 30) {
		t.Fatalf("unexpected dates %v %v", captured.StartFrom, captured.EndTo)
	}
	if captured.Sort.Field != "rental_price" || captured.Sort.Desc {
		t.Fatalf("unexpected sort %+v", captured.Sort)
	}

	rec = httptest.NewRecorder()
	BookingsList(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil))
	if captured.Sort.Field != "start_date" || !captured.Sort.Desc {
		t.Fatalf("expected default sort start_date desc, got %+v", captured.Sort)
	}

	rec = httptest.NewRecorder()
	BookingsList(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=lost", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status got %d", rec.Code)
	}
}

func TestBookingsCalendarRequiresWindow(t *testing.T) {
	svc := stubBookingService{calendar: func(_ context.Context, p bookings.CalendarParams) ([]bookings.CalendarEvent, error) {
		return []bookings.CalendarEvent{{ID: uuid.New(), Title: "Layla - Amina", Start: p.Start, End: p.End, Color: "#10b981"}}, nil
	}}

	rec := httptest.NewRecorder()
	BookingsCalendar(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/calendar?start=2025-06-01", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	BookingsCalendar(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/calendar?start=2025-06-01&end=2025-06-30", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var events []bookings.CalendarEvent
	decodeData(t, rec, &events)
	if len(events) != 1 || events[0].Title != "Layla - Amina" {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestBookingsCreateConflictIs409(t *testing.T) {
	clientID, dressID := uuid.New(), uuid.New()
	svc := stubBookingService{create: func(_ context.Context, in bookings.CreateInput) (*models.Booking, error) {
		if in.ClientID != clientID || in.DressID != dressID || in.StartDate != types.NewDate(2025, 6, 14) {
			t.Fatalf("unexpected input %+v", in)
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "dress already booked")
	}}

	body := `{"client_id":"` + clientID.String() + `","dress_id":"` + dressID.String() + `","start_date":"2025-06-14","end_date":"2025-06-16"}`
	rec := httptest.NewRecorder()
	BookingsCreate(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != string(pkgerrors.CodeConflict) {
		t.Fatalf("expected CONFLICT got %s", code)
	}
}

func TestBookingsCancel(t *testing.T) {
	id := uuid.New()
	svc := stubBookingService{cancel: func(_ context.Context, got uuid.UUID) (*models.Booking, error) {
		return &models.Booking{ID: got, BookingStatus: enums.BookingStatusCancelled}, nil
	}}
	req := withURLParams(httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"id": id.String()})
	rec := httptest.NewRecorder()
	BookingsCancel(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var got bookings.BookingDTO
	decodeData(t, rec, &got)
	if got.ID != id || got.BookingStatus != enums.BookingStatusCancelled {
		t.Fatalf("unexpected booking %+v", got)
	}
}
