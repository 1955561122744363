package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusComplete  ReservationStatus = "complete"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Reservation commits items for a future window. Cancellation keeps the
// record for audit; quantities are never mutated in place.
type Reservation struct {
	ID          string
	Items       map[string]int
	HolderID    string
	TimeCreated time.Time
	TimeStart   time.Time
	TimeEnd     time.Time
	CancelledAt *time.Time
}

func (r Reservation) Cancelled() bool {
	return r.CancelledAt != nil
}

// Status is a pure function of time except for the manual cancelled state.
func (r Reservation) Status(now time.Time) ReservationStatus {
	if r.Cancelled() {
		return ReservationStatusCancelled
	}
	switch {
	case now.Before(r.TimeStart):
		return ReservationStatusPending
	case now.Before(r.TimeEnd):
		return ReservationStatusActive
	default:
		return ReservationStatusComplete
	}
}

// Interval is the window the reservation commits capacity for.
func (r Reservation) Interval() Interval {
	return Interval{Start: r.TimeStart, End: r.TimeEnd}
}

// Commitments expands the reservation into per-item commitments.
func (r Reservation) Commitments() []Commitment {
	out := make([]Commitment, 0, len(r.Items))
	for itemID, qty := range r.Items {
		out = append(out, Commitment{
			ItemID:   itemID,
			Quantity: qty,
			Interval: r.Interval(),
			Kind:     CommitmentReservation,
		})
	}
	return out
}
