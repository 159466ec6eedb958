package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/wardrop-backend/internal/bookings"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
	"github.com/angelmondragon/wardrop-backend/pkg/metrics"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
)

// BookingLifecycleJobParams configure the daily booking sweep.
type BookingLifecycleJobParams struct {
	Logger   *logger.Logger
	Sweeper  bookingSweeper
	Location *time.Location
	Metrics  *metrics.BookingSweepMetrics
}

type bookingSweeper interface {
	RunDailySweep(ctx context.Context, today types.Date) (bookings.SweepResult, error)
}

// NewBookingLifecycleJob builds the job that starts and completes bookings for the local day.
func NewBookingLifecycleJob(params BookingLifecycleJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sweeper == nil {
		return nil, fmt.Errorf("booking sweeper required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	return &bookingLifecycleJob{
		logg:    params.Logger,
		sweeper: params.Sweeper,
		loc:     loc,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

type bookingLifecycleJob struct {
	logg    *logger.Logger
	sweeper bookingSweeper
	loc     *time.Location
	metrics *metrics.BookingSweepMetrics
	now     func() time.Time
}

func (j *bookingLifecycleJob) Name() string { return "booking-lifecycle" }

func (j *bookingLifecycleJob) Run(ctx context.Context) error {
	today := types.Today(j.now(), j.loc)
	result, err := j.sweeper.RunDailySweep(ctx, today)
	if err != nil {
		return fmt.Errorf("booking sweep for %s: %w", today, err)
	}
	j.metrics.Observe(len(result.PromotedToInProgress), len(result.Completed))

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"today":     today.String(),
		"promoted":  len(result.PromotedToInProgress),
		"completed": len(result.Completed),
	})
	j.logg.Info(logCtx, "booking sweep complete")
	return nil
}
