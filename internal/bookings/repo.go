package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/wardrop-backend/internal/repo"
	"github.com/angelmondragon/wardrop-backend/pkg/db"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var activeStatuses = []enums.BookingStatus{enums.BookingStatusConfirmed, enums.BookingStatusInProgress}

var sortColumns = map[string]string{
	"start_date":   "start_date",
	"rental_price": "rental_price",
	"created_at":   "created_at",
}

var defaultSort = repo.Sort{Field: "start_date", Desc: true}

// Repository persists bookings and the dress status they drive.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) error
	Save(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, params ListParams) ([]models.Booking, int64, error)
	ListInWindow(ctx context.Context, params CalendarParams) ([]models.Booking, error)
	ListByStartRange(ctx context.Context, from, to types.Date) ([]models.Booking, error)
	ListWithin(ctx context.Context, from, to types.Date) ([]models.Booking, error)
	ListForDress(ctx context.Context, dressID uuid.UUID, excludeCancelled bool) ([]models.Booking, error)
	ListActiveContaining(ctx context.Context, dressID uuid.UUID, day types.Date) ([]models.Booking, error)
	ListStartingBy(ctx context.Context, status enums.BookingStatus, day types.Date) ([]models.Booking, error)
	ListEndingBefore(ctx context.Context, status enums.BookingStatus, day types.Date) ([]models.Booking, error)
	SetStatus(ctx context.Context, ids []uuid.UUID, status enums.BookingStatus, now time.Time) error
	LockDress(ctx context.Context, dressID uuid.UUID) (*models.Dress, error)
	SetDressStatus(ctx context.Context, dressID uuid.UUID, status enums.AvailabilityStatus) error
	ClientExists(ctx context.Context, clientID uuid.UUID) (bool, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a bookings repository bound to the provided database.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(conn)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, booking *models.Booking) error {
	return r.DB(ctx).Omit("Client", "Dress").Create(booking).Error
}

func (r *repository) Save(ctx context.Context, booking *models.Booking) error {
	return r.DB(ctx).Omit("Client", "Dress").Save(booking).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Delete(&models.Booking{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.DB(ctx).Preload("Client").Preload("Dress").First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.Booking, int64, error) {
	query := r.DB(ctx).Model(&models.Booking{})
	if params.Status != nil {
		query = query.Where("booking_status = ?", *params.Status)
	}
	if params.DepositStatus != nil {
		query = query.Where("deposit_status = ?", *params.DepositStatus)
	}
	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}
	if params.DressID != nil {
		query = query.Where("dress_id = ?", *params.DressID)
	}
	if !params.StartFrom.IsZero() {
		query = query.Where("start_date >= ?", params.StartFrom)
	}
	if !params.EndTo.IsZero() {
		query = query.Where("end_date <= ?", params.EndTo)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Booking
	ordered := repo.Order(query.Preload("Client").Preload("Dress"), params.Sort, sortColumns, defaultSort)
	if err := repo.Page(ordered, params.Params).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) ListInWindow(ctx context.Context, params CalendarParams) ([]models.Booking, error) {
	query := r.DB(ctx).
		Preload("Client").
		Preload("Dress").
		Where("booking_status <> ?", enums.BookingStatusCancelled).
		Where("start_date <= ? AND end_date >= ?", params.End, params.Start)
	if params.DressID != nil {
		query = query.Where("dress_id = ?", *params.DressID)
	}
	var rows []models.Booking
	if err := query.Order("start_date").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByStartRange returns bookings of any status starting within [from, to], newest first.
func (r *repository) ListByStartRange(ctx context.Context, from, to types.Date) ([]models.Booking, error) {
	query := r.DB(ctx).Preload("Client").Preload("Dress")
	if !from.IsZero() {
		query = query.Where("start_date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("start_date <= ?", to)
	}
	var rows []models.Booking
	if err := query.Order("start_date DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListWithin returns bookings that start on or after from and end on or before to.
// Zero bounds are open.
func (r *repository) ListWithin(ctx context.Context, from, to types.Date) ([]models.Booking, error) {
	query := r.DB(ctx).Preload("Client").Preload("Dress")
	if !from.IsZero() {
		query = query.Where("start_date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("end_date <= ?", to)
	}
	var rows []models.Booking
	if err := query.Order("start_date DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListForDress(ctx context.Context, dressID uuid.UUID, excludeCancelled bool) ([]models.Booking, error) {
	query := r.DB(ctx).Where("dress_id = ?", dressID)
	if excludeCancelled {
		query = query.Where("booking_status <> ?", enums.BookingStatusCancelled)
	}
	var rows []models.Booking
	if err := query.Order("start_date").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListActiveContaining(ctx context.Context, dressID uuid.UUID, day types.Date) ([]models.Booking, error) {
	var rows []models.Booking
	err := r.DB(ctx).
		Where("dress_id = ?", dressID).
		Where("booking_status IN ?", activeStatuses).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListStartingBy(ctx context.Context, status enums.BookingStatus, day types.Date) ([]models.Booking, error) {
	var rows []models.Booking
	err := r.DB(ctx).
		Where("booking_status = ? AND start_date <= ?", status, day).
		Order("start_date").Order("id").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListEndingBefore(ctx context.Context, status enums.BookingStatus, day types.Date) ([]models.Booking, error) {
	var rows []models.Booking
	err := r.DB(ctx).
		Where("booking_status = ? AND end_date < ?", status, day).
		Order("end_date").Order("id").
		Find(&rows).Error
	return rows, err
}

func (r *repository) SetStatus(ctx context.Context, ids []uuid.UUID, status enums.BookingStatus, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB(ctx).
		Model(&models.Booking{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"booking_status": status, "updated_at": now}).Error
}

// LockDress loads the dress row, locking it for the rest of the transaction.
func (r *repository) LockDress(ctx context.Context, dressID uuid.UUID) (*models.Dress, error) {
	var dress models.Dress
	err := db.ForUpdate(r.DB(ctx)).First(&dress, "id = ?", dressID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dress, nil
}

func (r *repository) SetDressStatus(ctx context.Context, dressID uuid.UUID, status enums.AvailabilityStatus) error {
	return r.DB(ctx).
		Model(&models.Dress{}).
		Where("id = ?", dressID).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()}).Error
}

func (r *repository) ClientExists(ctx context.Context, clientID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Client{}).Where("id = ?", clientID).Count(&count).Error
	return count > 0, err
}
