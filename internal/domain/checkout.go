package domain

import "time"

// Checkout records items physically taken out of the space. It stays open
// (and counts against capacity) until checked back in; check-in is terminal.
type Checkout struct {
	ID                string
	Items             map[string]int
	HolderID          string
	TimeOut           time.Time
	TimeDue           time.Time
	TimeIn            *time.Time
	NotificationsSent int
}

func (c Checkout) Open() bool {
	return c.TimeIn == nil
}

// Overdue is a derived predicate, never stored.
func (c Checkout) Overdue(now time.Time) bool {
	return c.Open() && now.After(c.TimeDue)
}

// Interval is the window the checkout commits capacity for.
func (c Checkout) Interval() Interval {
	return Interval{Start: c.TimeOut, End: c.TimeDue}
}

// Commitments expands the checkout into per-item commitments.
func (c Checkout) Commitments() []Commitment {
	out := make([]Commitment, 0, len(c.Items))
	for itemID, qty := range c.Items {
		out = append(out, Commitment{
			ItemID:   itemID,
			Quantity: qty,
			Interval: c.Interval(),
			Kind:     CommitmentCheckout,
		})
	}
	return out
}
