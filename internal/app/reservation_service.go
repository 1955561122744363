package app

import (
	"context"
	"time"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/clock"
	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

type ReservationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetItemForUpdate(ctx context.Context, itemID string) (domain.InventoryItem, error)
	SumOpenCheckouts(ctx context.Context, itemID string, ival domain.Interval) (int, error)
	SumActiveReservations(ctx context.Context, itemID string, ival domain.Interval) (int, error)
	CreateReservation(ctx context.Context, reservation domain.Reservation) error
	GetReservation(ctx context.Context, reservationID string) (domain.Reservation, error)
	GetReservationForUpdate(ctx context.Context, reservationID string) (domain.Reservation, error)
	ListReservationsByHolder(ctx context.Context, holderID string) ([]domain.Reservation, error)
	CancelReservation(ctx context.Context, reservationID string, at time.Time) error
}

type ReservationService struct {
	repo  ReservationRepository
	clock clock.Clock
}

func NewReservationService(repo ReservationRepository, clk clock.Clock) *ReservationService {
	return &ReservationService{
		repo:  repo,
		clock: clk,
	}
}

type CreateReservationInput struct {
	Items     map[string]int
	HolderID  string
	TimeStart time.Time
	TimeEnd   time.Time
}

// CreateReservation books a future window. The start must be strictly after
// now; amendments are a cancel plus a fresh create, never an in-place edit.
func (s *ReservationService) CreateReservation(ctx context.Context, in CreateReservationInput) (domain.Reservation, error) {
	if in.HolderID == "" {
		return domain.Reservation{}, domain.ErrHolderRequired
	}
	if len(in.Items) == 0 {
		return domain.Reservation{}, domain.ErrInvalidQuantity
	}
	for _, qty := range in.Items {
		if qty <= 0 {
			return domain.Reservation{}, domain.ErrInvalidQuantity
		}
	}

	now := s.clock.Now()
	if !in.TimeStart.After(now) {
		return domain.Reservation{}, domain.ErrInvalidWindow
	}
	if !in.TimeEnd.After(in.TimeStart) {
		return domain.Reservation{}, domain.ErrInvalidWindow
	}
	ival := domain.Interval{Start: in.TimeStart, End: in.TimeEnd}

	var result domain.Reservation
	err := withConflictRetry(ctx, func() error {
		return s.repo.WithTx(ctx, func(txCtx context.Context) error {
			for _, itemID := range sortedItemIDs(in.Items) {
				item, err := s.repo.GetItemForUpdate(txCtx, itemID)
				if err != nil {
					return err
				}
				if err := checkItemAdmission(txCtx, s.repo, item, in.Items[itemID], ival); err != nil {
					return err
				}
			}

			reservation := domain.Reservation{
				ID:          newID(),
				Items:       copyItems(in.Items),
				HolderID:    in.HolderID,
				TimeCreated: now,
				TimeStart:   in.TimeStart,
				TimeEnd:     in.TimeEnd,
			}
			if err := s.repo.CreateReservation(txCtx, reservation); err != nil {
				return err
			}
			result = reservation
			return nil
		})
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return result, nil
}

type CancelReservationInput struct {
	ReservationID string
	HolderID      string
	// Override marks a caller the authorization oracle granted the
	// cancel-any scope (staff desk, admin tools).
	Override bool
}

// CancelReservation releases a pending or active reservation. The record is
// kept for audit; only cancelled_at is set.
func (s *ReservationService) CancelReservation(ctx context.Context, in CancelReservationInput) (domain.Reservation, error) {
	if in.HolderID == "" && !in.Override {
		return domain.Reservation{}, domain.ErrHolderRequired
	}

	now := s.clock.Now()

	var result domain.Reservation
	err := withConflictRetry(ctx, func() error {
		return s.repo.WithTx(ctx, func(txCtx context.Context) error {
			reservation, err := s.repo.GetReservationForUpdate(txCtx, in.ReservationID)
			if err != nil {
				return err
			}
			if reservation.HolderID != in.HolderID && !in.Override {
				return domain.ErrForbidden
			}
			switch reservation.Status(now) {
			case domain.ReservationStatusPending, domain.ReservationStatusActive:
			default:
				return domain.ErrAlreadyClosed
			}

			if err := s.repo.CancelReservation(txCtx, reservation.ID, now); err != nil {
				return err
			}
			reservation.CancelledAt = &now
			result = reservation
			return nil
		})
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return result, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, reservationID string) (domain.Reservation, error) {
	return s.repo.GetReservation(ctx, reservationID)
}

func (s *ReservationService) ListReservationsByHolder(ctx context.Context, holderID string) ([]domain.Reservation, error) {
	if holderID == "" {
		return nil, domain.ErrHolderRequired
	}
	return s.repo.ListReservationsByHolder(ctx, holderID)
}
