package app

import (
	"context"
	"time"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/clock"
	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

type CheckoutRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetItemForUpdate(ctx context.Context, itemID string) (domain.InventoryItem, error)
	SumOpenCheckouts(ctx context.Context, itemID string, ival domain.Interval) (int, error)
	SumActiveReservations(ctx context.Context, itemID string, ival domain.Interval) (int, error)
	CreateCheckout(ctx context.Context, checkout domain.Checkout) error
	GetCheckout(ctx context.Context, checkoutID string) (domain.Checkout, error)
	GetCheckoutForUpdate(ctx context.Context, checkoutID string) (domain.Checkout, error)
	ListCheckoutsByHolder(ctx context.Context, holderID string) ([]domain.Checkout, error)
	UpdateCheckoutDue(ctx context.Context, checkoutID string, due time.Time) error
	CloseCheckout(ctx context.Context, checkoutID string, timeIn time.Time) error
}

type CheckoutService struct {
	repo  CheckoutRepository
	clock clock.Clock
}

func NewCheckoutService(repo CheckoutRepository, clk clock.Clock) *CheckoutService {
	return &CheckoutService{
		repo:  repo,
		clock: clk,
	}
}

type CreateCheckoutInput struct {
	Items    map[string]int
	HolderID string
	TimeDue  time.Time
}

// CreateCheckout admits every item of the request or none. Item rows are
// locked in sorted id order so two concurrent requests for the last unit are
// serialized; the loser sees the updated sums and is rejected.
func (s *CheckoutService) CreateCheckout(ctx context.Context, in CreateCheckoutInput) (domain.Checkout, error) {
	if in.HolderID == "" {
		return domain.Checkout{}, domain.ErrHolderRequired
	}
	if len(in.Items) == 0 {
		return domain.Checkout{}, domain.ErrInvalidQuantity
	}
	for _, qty := range in.Items {
		if qty <= 0 {
			return domain.Checkout{}, domain.ErrInvalidQuantity
		}
	}

	now := s.clock.Now()
	if !in.TimeDue.After(now) {
		return domain.Checkout{}, domain.ErrInvalidWindow
	}
	ival := domain.Interval{Start: now, End: in.TimeDue}

	var result domain.Checkout
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

			checkout := domain.Checkout{
				ID:       newID(),
				Items:    copyItems(in.Items),
				HolderID: in.HolderID,
				TimeOut:  now,
				TimeDue:  in.TimeDue,
			}
			if err := s.repo.CreateCheckout(txCtx, checkout); err != nil {
				return err
			}
			result = checkout
			return nil
		})
	})
	if err != nil {
		return domain.Checkout{}, err
	}
	return result, nil
}

type RenewCheckoutInput struct {
	CheckoutID string
	NewDue     time.Time
}

// RenewCheckout extends the due date. Only the delta window
// [old due, new due) is re-checked; the original window was already granted.
func (s *CheckoutService) RenewCheckout(ctx context.Context, in RenewCheckoutInput) (domain.Checkout, error) {
	var result domain.Checkout
	err := withConflictRetry(ctx, func() error {
		return s.repo.WithTx(ctx, func(txCtx context.Context) error {
			checkout, err := s.repo.GetCheckoutForUpdate(txCtx, in.CheckoutID)
			if err != nil {
				return err
			}
			if !checkout.Open() {
				return domain.ErrCheckoutNotFound
			}
			if !in.NewDue.After(checkout.TimeDue) {
				return domain.ErrInvalidWindow
			}

			delta := domain.Interval{Start: checkout.TimeDue, End: in.NewDue}
			for _, itemID := range sortedItemIDs(checkout.Items) {
				item, err := s.repo.GetItemForUpdate(txCtx, itemID)
				if err != nil {
					return err
				}
				if err := checkItemAdmission(txCtx, s.repo, item, checkout.Items[itemID], delta); err != nil {
					return err
				}
			}

			if err := s.repo.UpdateCheckoutDue(txCtx, checkout.ID, in.NewDue); err != nil {
				return err
			}
			checkout.TimeDue = in.NewDue
			result = checkout
			return nil
		})
	})
	if err != nil {
		return domain.Checkout{}, err
	}
	return result, nil
}

// CheckIn closes an open checkout. A second call is a no-op signalled with
// ErrAlreadyClosed; the stored time_in never changes once set.
func (s *CheckoutService) CheckIn(ctx context.Context, checkoutID string) (domain.Checkout, error) {
	now := s.clock.Now()

	var result domain.Checkout
	err := withConflictRetry(ctx, func() error {
		return s.repo.WithTx(ctx, func(txCtx context.Context) error {
			checkout, err := s.repo.GetCheckoutForUpdate(txCtx, checkoutID)
			if err != nil {
				return err
			}
			if !checkout.Open() {
				return domain.ErrAlreadyClosed
			}
			if err := s.repo.CloseCheckout(txCtx, checkout.ID, now); err != nil {
				return err
			}
			checkout.TimeIn = &now
			result = checkout
			return nil
		})
	})
	if err != nil {
		return domain.Checkout{}, err
	}
	return result, nil
}

func (s *CheckoutService) GetCheckout(ctx context.Context, checkoutID string) (domain.Checkout, error) {
	return s.repo.GetCheckout(ctx, checkoutID)
}

func (s *CheckoutService) ListCheckoutsByHolder(ctx context.Context, holderID string) ([]domain.Checkout, error) {
	if holderID == "" {
		return nil, domain.ErrHolderRequired
	}
	return s.repo.ListCheckoutsByHolder(ctx, holderID)
}
