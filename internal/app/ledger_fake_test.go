package app

import (
	"context"
	"time"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

// fakeLedger is an in-memory stand-in for the postgres repositories, shared
// by the service tests in this package.
type fakeLedger struct {
	items        map[string]domain.InventoryItem
	checkouts    map[string]domain.Checkout
	reservations map[string]domain.Reservation

	txErr   error
	txCalls int
}

func newFakeLedger(items ...domain.InventoryItem) *fakeLedger {
	l := &fakeLedger{
		items:        make(map[string]domain.InventoryItem),
		checkouts:    make(map[string]domain.Checkout),
		reservations: make(map[string]domain.Reservation),
	}
	for _, item := range items {
		l.items[item.ID] = item
	}
	return l
}

func (l *fakeLedger) addCheckout(c domain.Checkout) {
	l.checkouts[c.ID] = c
}

func (l *fakeLedger) addReservation(r domain.Reservation) {
	l.reservations[r.ID] = r
}

func (l *fakeLedger) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	l.txCalls++
	if l.txErr != nil {
		return l.txErr
	}
	return fn(ctx)
}

func (l *fakeLedger) GetItem(_ context.Context, itemID string) (domain.InventoryItem, error) {
	item, ok := l.items[itemID]
	if !ok {
		return domain.InventoryItem{}, domain.ErrItemNotFound
	}
	return item, nil
}

func (l *fakeLedger) GetItemForUpdate(ctx context.Context, itemID string) (domain.InventoryItem, error) {
	return l.GetItem(ctx, itemID)
}

func (l *fakeLedger) SumOpenCheckouts(_ context.Context, itemID string, ival domain.Interval) (int, error) {
	total := 0
	for _, c := range l.checkouts {
		if !c.Open() || !c.Interval().Overlaps(ival) {
			continue
		}
		total += c.Items[itemID]
	}
	return total, nil
}

func (l *fakeLedger) SumActiveReservations(_ context.Context, itemID string, ival domain.Interval) (int, error) {
	total := 0
	for _, r := range l.reservations {
		if r.Cancelled() || !r.Interval().Overlaps(ival) {
			continue
		}
		total += r.Items[itemID]
	}
	return total, nil
}

func (l *fakeLedger) CreateCheckout(_ context.Context, checkout domain.Checkout) error {
	l.checkouts[checkout.ID] = checkout
	return nil
}

func (l *fakeLedger) GetCheckout(_ context.Context, checkoutID string) (domain.Checkout, error) {
	c, ok := l.checkouts[checkoutID]
	if !ok {
		return domain.Checkout{}, domain.ErrCheckoutNotFound
	}
	return c, nil
}

func (l *fakeLedger) GetCheckoutForUpdate(ctx context.Context, checkoutID string) (domain.Checkout, error) {
	return l.GetCheckout(ctx, checkoutID)
}

func (l *fakeLedger) ListCheckoutsByHolder(_ context.Context, holderID string) ([]domain.Checkout, error) {
	var out []domain.Checkout
	for _, c := range l.checkouts {
		if c.HolderID == holderID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (l *fakeLedger) UpdateCheckoutDue(_ context.Context, checkoutID string, due time.Time) error {
	c, ok := l.checkouts[checkoutID]
	if !ok {
		return domain.ErrCheckoutNotFound
	}
	c.TimeDue = due
	l.checkouts[checkoutID] = c
	return nil
}

func (l *fakeLedger) CloseCheckout(_ context.Context, checkoutID string, timeIn time.Time) error {
	c, ok := l.checkouts[checkoutID]
	if !ok {
		return domain.ErrCheckoutNotFound
	}
	in := timeIn
	c.TimeIn = &in
	l.checkouts[checkoutID] = c
	return nil
}

func (l *fakeLedger) CreateReservation(_ context.Context, reservation domain.Reservation) error {
	l.reservations[reservation.ID] = reservation
	return nil
}

func (l *fakeLedger) GetReservation(_ context.Context, reservationID string) (domain.Reservation, error) {
	r, ok := l.reservations[reservationID]
	if !ok {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	return r, nil
}

func (l *fakeLedger) GetReservationForUpdate(ctx context.Context, reservationID string) (domain.Reservation, error) {
	return l.GetReservation(ctx, reservationID)
}

func (l *fakeLedger) ListReservationsByHolder(_ context.Context, holderID string) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range l.reservations {
		if r.HolderID == holderID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (l *fakeLedger) CancelReservation(_ context.Context, reservationID string, at time.Time) error {
	r, ok := l.reservations[reservationID]
	if !ok {
		return domain.ErrReservationNotFound
	}
	cancelled := at
	r.CancelledAt = &cancelled
	l.reservations[reservationID] = r
	return nil
}

func (l *fakeLedger) ListOverdueCheckouts(_ context.Context, now time.Time) ([]domain.Checkout, error) {
	var out []domain.Checkout
	for _, c := range l.checkouts {
		if c.Overdue(now) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (l *fakeLedger) IncrementNotifications(_ context.Context, checkoutID string) error {
	c, ok := l.checkouts[checkoutID]
	if !ok {
		return domain.ErrCheckoutNotFound
	}
	c.NotificationsSent++
	l.checkouts[checkoutID] = c
	return nil
}

func (l *fakeLedger) CreateItem(_ context.Context, item domain.InventoryItem) error {
	l.items[item.ID] = item
	return nil
}

func (l *fakeLedger) ListItems(_ context.Context) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	for _, item := range l.items {
		out = append(out, item)
	}
	return out, nil
}
