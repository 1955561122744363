package app

import (
	"context"
	"sort"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

// capacityReader exposes the committed-quantity sums every admission check
// needs. Both repository flavors (locking and advisory) satisfy it.
type capacityReader interface {
	SumOpenCheckouts(ctx context.Context, itemID string, ival domain.Interval) (int, error)
	SumActiveReservations(ctx context.Context, itemID string, ival domain.Interval) (int, error)
}

// committedQuantity sums open checkouts and non-cancelled reservations whose
// windows overlap ival.
func committedQuantity(ctx context.Context, r capacityReader, itemID string, ival domain.Interval) (int, error) {
	checkedOut, err := r.SumOpenCheckouts(ctx, itemID, ival)
	if err != nil {
		return 0, err
	}
	reserved, err := r.SumActiveReservations(ctx, itemID, ival)
	if err != nil {
		return 0, err
	}
	return checkedOut + reserved, nil
}

// checkItemAdmission decides whether quantity more units of item fit within
// ival. Qualitative stock always admits; it is excluded from the arithmetic.
func checkItemAdmission(ctx context.Context, r capacityReader, item domain.InventoryItem, quantity int, ival domain.Interval) error {
	if !item.Stock.Tracked() {
		return nil
	}
	committed, err := committedQuantity(ctx, r, item.ID, ival)
	if err != nil {
		return err
	}
	if committed+quantity > item.Stock.Units() {
		return &domain.InsufficientStockError{ItemID: item.ID}
	}
	return nil
}

// sortedItemIDs fixes the lock acquisition order for multi-item requests.
func sortedItemIDs(items map[string]int) []string {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func copyItems(items map[string]int) map[string]int {
	out := make(map[string]int, len(items))
	for id, qty := range items {
		out[id] = qty
	}
	return out
}

// AvailabilityRepository is the read-only ledger view for advisory checks.
type AvailabilityRepository interface {
	GetItem(ctx context.Context, itemID string) (domain.InventoryItem, error)
	SumOpenCheckouts(ctx context.Context, itemID string, ival domain.Interval) (int, error)
	SumActiveReservations(ctx context.Context, itemID string, ival domain.Interval) (int, error)
}

// AvailabilityService answers "would this commitment fit" without taking
// locks. The verdict is advisory: the booking services re-run the same check
// inside the transaction that writes the ledger.
type AvailabilityService struct {
	repo AvailabilityRepository
}

func NewAvailabilityService(repo AvailabilityRepository) *AvailabilityService {
	return &AvailabilityService{repo: repo}
}

func (s *AvailabilityService) Available(ctx context.Context, itemID string, quantity int, ival domain.Interval) (bool, error) {
	if quantity <= 0 {
		return false, domain.ErrInvalidQuantity
	}
	if !ival.Valid() {
		return false, domain.ErrInvalidWindow
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return false, err
	}
	if !item.Stock.Tracked() {
		return true, nil
	}

	committed, err := committedQuantity(ctx, s.repo, itemID, ival)
	if err != nil {
		return false, err
	}
	return committed+quantity <= item.Stock.Units(), nil
}
