package bookings

import (
	"context"

	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RunDailySweep advances the booking lifecycle for today in one transaction.
// Confirmed bookings that have started move to in_progress and rent their
// dress. In-progress bookings that ended before today complete, freeing the
// dress unless another active booking holds it today. Promotion is applied in
// full before completion is evaluated.
func (s *service) RunDailySweep(ctx context.Context, today types.Date) (SweepResult, error) {
	if today.IsZero() {
		return SweepResult{}, pkgerrors.New(pkgerrors.CodeValidation, "sweep day is required")
	}

	result := SweepResult{PromotedToInProgress: []uuid.UUID{}, Completed: []uuid.UUID{}}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := s.now().UTC()

		starting, err := repo.ListStartingBy(ctx, enums.BookingStatusConfirmed, today)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list starting bookings")
		}
		promoted := make([]uuid.UUID, 0, len(starting))
		for _, b := range starting {
			promoted = append(promoted, b.ID)
		}
		if err := repo.SetStatus(ctx, promoted, enums.BookingStatusInProgress, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: promote bookings")
		}
		for _, dressID := range distinctDresses(starting) {
			if err := repo.SetDressStatus(ctx, dressID, enums.AvailabilityStatusRented); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: rent dress")
			}
		}

		ending, err := repo.ListEndingBefore(ctx, enums.BookingStatusInProgress, today)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list ending bookings")
		}
		completed := make([]uuid.UUID, 0, len(ending))
		for _, b := range ending {
			completed = append(completed, b.ID)
		}
		if err := repo.SetStatus(ctx, completed, enums.BookingStatusCompleted, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: complete bookings")
		}
		for _, dressID := range distinctDresses(ending) {
			// completed rows are no longer active, so anything left holds the dress
			holding, err := repo.ListActiveContaining(ctx, dressID, today)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load active bookings")
			}
			next := enums.AvailabilityStatusAvailable
			if len(holding) > 0 {
				next = enums.AvailabilityStatusRented
			}
			if err := repo.SetDressStatus(ctx, dressID, next); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: release dress")
			}
		}

		result.PromotedToInProgress = promoted
		result.Completed = completed
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"day":       today.String(),
			"promoted":  len(result.PromotedToInProgress),
			"completed": len(result.Completed),
		})
		s.logg.Info(logCtx, "booking sweep finished")
	}
	return result, nil
}

func distinctDresses(rows []models.Booking) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(rows))
	out := make([]uuid.UUID, 0, len(rows))
	for _, b := range rows {
		if _, ok := seen[b.DressID]; ok {
			continue
		}
		seen[b.DressID] = struct{}{}
		out = append(out, b.DressID)
	}
	return out
}
