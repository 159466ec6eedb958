package reports

import (
	"context"

	"github.com/angelmondragon/wardrop-backend/internal/repo"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
	"gorm.io/gorm"
)

// Counts holds the row totals shown on the dashboard.
type Counts struct {
	Clients         int64
	Dresses         int64
	Clothing        int64
	ActiveBookings  int64
	LowStock        int64
	UpcomingReturns int64
}

// Repository reads the rows reports aggregate.
type Repository interface {
	Counts(ctx context.Context, today types.Date) (Counts, error)
	BookingsStartingBetween(ctx context.Context, from, to types.Date) ([]models.Booking, error)
	SalesBetween(ctx context.Context, from, to types.Date) ([]models.Sale, error)
	PendingDeposits(ctx context.Context) ([]models.Booking, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a reports repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Counts(ctx context.Context, today types.Date) (Counts, error) {
	var c Counts
	steps := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&c.Clients, r.DB(ctx).Model(&models.Client{})},
		{&c.Dresses, r.DB(ctx).Model(&models.Dress{})},
		{&c.Clothing, r.DB(ctx).Model(&models.Clothing{})},
		{&c.ActiveBookings, r.DB(ctx).Model(&models.Booking{}).
			Where("booking_status IN ?", []enums.BookingStatus{enums.BookingStatusConfirmed, enums.BookingStatusInProgress})},
		{&c.LowStock, r.DB(ctx).Model(&models.Clothing{}).
			Where("stock_quantity > 0 AND stock_quantity < ?", lowStockThreshold)},
		{&c.UpcomingReturns, r.DB(ctx).Model(&models.Booking{}).
			Where("booking_status = ?", enums.BookingStatusInProgress).
			Where("end_date >= ? AND end_date <= ?", today, today.AddDays(upcomingDays))},
	}
	for _, step := range steps {
		if err := step.query.Count(step.dst).Error; err != nil {
			return Counts{}, err
		}
	}
	return c, nil
}

// BookingsStartingBetween returns non-cancelled bookings starting within [from, to].
func (r *repository) BookingsStartingBetween(ctx context.Context, from, to types.Date) ([]models.Booking, error) {
	var rows []models.Booking
	err := r.DB(ctx).
		Preload("Client").
		Preload("Dress").
		Where("booking_status <> ?", enums.BookingStatusCancelled).
		Where("start_date >= ? AND start_date <= ?", from, to).
		Order("start_date").Order("id").
		Find(&rows).Error
	return rows, err
}

// SalesBetween returns sales dated within [from, to] with their client and item.
func (r *repository) SalesBetween(ctx context.Context, from, to types.Date) ([]models.Sale, error) {
	var rows []models.Sale
	err := r.DB(ctx).
		Preload("Client").
		Preload("Clothing").
		Where("sale_date >= ? AND sale_date <= ?", from, to).
		Order("sale_date").Order("id").
		Find(&rows).Error
	return rows, err
}

// PendingDeposits returns non-cancelled bookings whose deposit is still pending.
func (r *repository) PendingDeposits(ctx context.Context) ([]models.Booking, error) {
	var rows []models.Booking
	err := r.DB(ctx).
		Select("id", "deposit_amount").
		Where("deposit_status = ? AND booking_status <> ?", enums.DepositStatusPending, enums.BookingStatusCancelled).
		Find(&rows).Error
	return rows, err
}
