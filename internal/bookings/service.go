package bookings

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes booking management and the daily lifecycle sweep.
type Service interface {
	List(ctx context.Context, params ListParams) (pagination.Page[models.Booking], error)
	Calendar(ctx context.Context, params CalendarParams) ([]CalendarEvent, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Create(ctx context.Context, input CreateInput) (*models.Booking, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CheckConflict(ctx context.Context, dressID uuid.UUID, start, end types.Date, exclude *uuid.UUID) (*Conflict, error)
	RefreshAvailability(ctx context.Context, tx *gorm.DB, dressID uuid.UUID) (enums.AvailabilityStatus, error)
	RunDailySweep(ctx context.Context, today types.Date) (SweepResult, error)
	Today() types.Date
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams wires the bookings service.
type ServiceParams struct {
	Repo     Repository
	TxRunner txRunner
	Location *time.Location
	Logger   *logger.Logger
	Now      func() time.Time
}

type service struct {
	repo Repository
	tx   txRunner
	loc  *time.Location
	logg *logger.Logger
	now  func() time.Time
}

// NewService validates dependencies and builds the bookings service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "bookings repository required")
	}
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo: params.Repo,
		tx:   params.TxRunner,
		loc:  loc,
		logg: params.Logger,
		now:  now,
	}, nil
}

// Today is the current calendar day in the business time zone.
func (s *service) Today() types.Date {
	return types.Today(s.now(), s.loc)
}

func (s *service) List(ctx context.Context, params ListParams) (pagination.Page[models.Booking], error) {
	if params.Status != nil && !params.Status.IsValid() {
		return pagination.Page[models.Booking]{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid booking_status %q", *params.Status)
	}
	if params.DepositStatus != nil && !params.DepositStatus.IsValid() {
		return pagination.Page[models.Booking]{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid deposit_status %q", *params.DepositStatus)
	}
	params.Params = params.Params.Normalize()
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[models.Booking]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list bookings")
	}
	return pagination.NewPage(rows, total, params.Params), nil
}

func (s *service) Calendar(ctx context.Context, params CalendarParams) ([]CalendarEvent, error) {
	if err := validateRange(params.Start, params.End); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListInWindow(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list calendar bookings")
	}
	events := make([]CalendarEvent, 0, len(rows))
	for _, b := range rows {
		var clientName, dressName string
		if b.Client != nil {
			clientName = b.Client.FullName
		}
		if b.Dress != nil {
			dressName = b.Dress.Name
		}
		events = append(events, CalendarEvent{
			ID:         b.ID,
			Title:      fmt.Sprintf("%s - %s", dressName, clientName),
			Start:      b.StartDate,
			End:        b.EndDate,
			Color:      CalendarColor(b.BookingStatus),
			Status:     b.BookingStatus,
			ClientName: clientName,
			DressName:  dressName,
		})
	}
	return events, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get booking")
	}
	if booking == nil {
		return nil, pkgerrors.NotFound("booking")
	}
	return booking, nil
}

// CheckConflict returns the booking blocking [start, end] on dressID, if any.
func (s *service) CheckConflict(ctx context.Context, dressID uuid.UUID, start, end types.Date, exclude *uuid.UUID) (*Conflict, error) {
	return checkConflict(ctx, s.repo, dressID, start, end, exclude)
}

func checkConflict(ctx context.Context, repo Repository, dressID uuid.UUID, start, end types.Date, exclude *uuid.UUID) (*Conflict, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	candidates, err := repo.ListForDress(ctx, dressID, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load dress bookings")
	}
	return FindConflict(candidates, rangeOf(start, end), exclude), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Booking, error) {
	if input.ClientID == uuid.Nil || input.DressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client_id and dress_id are required")
	}
	if err := validateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	status := enums.BookingStatusConfirmed
	if input.BookingStatus != nil {
		status = *input.BookingStatus
	}
	if !status.IsActive() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "booking_status must be confirmed or in_progress, got %q", status)
	}
	deposit := enums.DepositStatusPending
	if input.DepositStatus != nil {
		deposit = *input.DepositStatus
	}
	if !deposit.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid deposit_status %q", deposit)
	}
	if err := validateMoney(input.RentalPrice, input.DepositAmount); err != nil {
		return nil, err
	}

	var bookingID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := repo.ClientExists(ctx, input.ClientID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check client")
		}
		if !exists {
			return pkgerrors.NotFound("client")
		}

		dress, err := repo.LockDress(ctx, input.DressID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock dress")
		}
		if dress == nil {
			return pkgerrors.NotFound("dress")
		}

		conflict, err := checkConflict(ctx, repo, dress.ID, input.StartDate, input.EndDate, nil)
		if err != nil {
			return err
		}
		if conflict != nil {
			return conflict.AsError()
		}

		booking := &models.Booking{
			ClientID:      input.ClientID,
			DressID:       dress.ID,
			StartDate:     input.StartDate,
			EndDate:       input.EndDate,
			RentalPrice:   valueOr(input.RentalPrice, dress.RentalPrice),
			DepositAmount: valueOr(input.DepositAmount, dress.DepositAmount),
			DepositStatus: deposit,
			BookingStatus: status,
			Notes:         input.Notes,
		}
		if err := repo.Create(ctx, booking); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create booking")
		}
		bookingID = booking.ID

		_, err = s.refresh(ctx, repo, dress)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, bookingID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Booking, error) {
	if err := validateMoney(input.RentalPrice, input.DepositAmount); err != nil {
		return nil, err
	}
	if input.DepositStatus != nil && !input.DepositStatus.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid deposit_status %q", *input.DepositStatus)
	}
	if input.BookingStatus != nil && !input.BookingStatus.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid booking_status %q", *input.BookingStatus)
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		booking, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get booking")
		}
		if booking == nil {
			return pkgerrors.NotFound("booking")
		}
		booking.Client, booking.Dress = nil, nil
		previousDress := booking.DressID

		if input.BookingStatus != nil && *input.BookingStatus != booking.BookingStatus {
			if !booking.BookingStatus.CanTransitionTo(*input.BookingStatus) {
				return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot change booking status from %s to %s", booking.BookingStatus, *input.BookingStatus).
					WithDetails(map[string]any{"from": booking.BookingStatus, "to": *input.BookingStatus})
			}
			booking.BookingStatus = *input.BookingStatus
		}

		if input.ClientID != nil && *input.ClientID != booking.ClientID {
			exists, err := repo.ClientExists(ctx, *input.ClientID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check client")
			}
			if !exists {
				return pkgerrors.NotFound("client")
			}
			booking.ClientID = *input.ClientID
		}

		rangeChanged := false
		if input.StartDate != nil && !input.StartDate.Equal(booking.StartDate) {
			booking.StartDate = *input.StartDate
			rangeChanged = true
		}
		if input.EndDate != nil && !input.EndDate.Equal(booking.EndDate) {
			booking.EndDate = *input.EndDate
			rangeChanged = true
		}
		dressChanged := input.DressID != nil && *input.DressID != booking.DressID
		if dressChanged {
			booking.DressID = *input.DressID
		}

		locked, err := lockDresses(ctx, repo, booking.DressID, previousDress)
		if err != nil {
			return err
		}
		dress := locked[booking.DressID]
		if dress == nil {
			return pkgerrors.NotFound("dress")
		}

		if rangeChanged || dressChanged {
			if err := validateRange(booking.StartDate, booking.EndDate); err != nil {
				return err
			}
			if booking.BookingStatus != enums.BookingStatusCancelled {
				conflict, err := checkConflict(ctx, repo, booking.DressID, booking.StartDate, booking.EndDate, &booking.ID)
				if err != nil {
					return err
				}
				if conflict != nil {
					return conflict.AsError()
				}
			}
		}

		if input.RentalPrice != nil {
			booking.RentalPrice = *input.RentalPrice
		}
		if input.DepositAmount != nil {
			booking.DepositAmount = *input.DepositAmount
		}
		if input.DepositStatus != nil {
			booking.DepositStatus = *input.DepositStatus
		}
		if input.Notes != nil {
			booking.Notes = input.Notes
		}

		if err := repo.Save(ctx, booking); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update booking")
		}

		if _, err := s.refresh(ctx, repo, dress); err != nil {
			return err
		}
		if prev := locked[previousDress]; dressChanged && prev != nil {
			if _, err := s.refresh(ctx, repo, prev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		booking, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get booking")
		}
		if booking == nil {
			return pkgerrors.NotFound("booking")
		}
		if !booking.BookingStatus.IsActive() {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot cancel a %s booking", booking.BookingStatus).
				WithDetails(map[string]any{"booking_status": booking.BookingStatus})
		}
		if err := repo.SetStatus(ctx, []uuid.UUID{booking.ID}, enums.BookingStatusCancelled, s.now().UTC()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: cancel booking")
		}
		return s.refreshByID(ctx, repo, booking.DressID)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		booking, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get booking")
		}
		if booking == nil {
			return pkgerrors.NotFound("booking")
		}
		if _, err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete booking")
		}
		return s.refreshByID(ctx, repo, booking.DressID)
	})
}

// RefreshAvailability recomputes the cached status of a dress. A nil tx runs
// on the service's own connection.
func (s *service) RefreshAvailability(ctx context.Context, tx *gorm.DB, dressID uuid.UUID) (enums.AvailabilityStatus, error) {
	repo := s.repo.WithTx(tx)
	dress, err := repo.LockDress(ctx, dressID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock dress")
	}
	if dress == nil {
		return "", pkgerrors.NotFound("dress")
	}
	return s.refresh(ctx, repo, dress)
}

// lockDresses takes the row locks for ids in ascending id order. Missing
// dresses are left out of the result.
func lockDresses(ctx context.Context, repo Repository, ids ...uuid.UUID) (map[uuid.UUID]*models.Dress, error) {
	ordered := slices.Clone(ids)
	slices.SortFunc(ordered, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	ordered = slices.Compact(ordered)

	locked := make(map[uuid.UUID]*models.Dress, len(ordered))
	for _, id := range ordered {
		dress, err := repo.LockDress(ctx, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock dress")
		}
		if dress != nil {
			locked[id] = dress
		}
	}
	return locked, nil
}

func (s *service) refreshByID(ctx context.Context, repo Repository, dressID uuid.UUID) error {
	dress, err := repo.LockDress(ctx, dressID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock dress")
	}
	if dress == nil {
		return nil
	}
	_, err = s.refresh(ctx, repo, dress)
	return err
}

func (s *service) refresh(ctx context.Context, repo Repository, dress *models.Dress) (enums.AvailabilityStatus, error) {
	today := s.Today()
	active, err := repo.ListActiveContaining(ctx, dress.ID, today)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load active bookings")
	}
	next := ApplyPin(dress.Status, DeriveAvailability(dress.ID, today, active))
	if next == dress.Status {
		return next, nil
	}
	if err := repo.SetDressStatus(ctx, dress.ID, next); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update dress status")
	}
	dress.Status = next
	return next, nil
}

func validateMoney(values ...*decimal.Decimal) error {
	for _, v := range values {
		if v != nil && v.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "amounts cannot be negative")
		}
	}
	return nil
}

func valueOr(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return *v
}
