package domain

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Valid() bool {
	return i.End.After(i.Start)
}

// Overlaps reports whether two half-open intervals intersect.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

type CommitmentKind string

const (
	CommitmentCheckout    CommitmentKind = "checkout"
	CommitmentReservation CommitmentKind = "reservation"
)

// Commitment is the uniform shape a checkout or reservation contributes to
// the capacity sum for one item.
type Commitment struct {
	ItemID   string
	Quantity int
	Interval Interval
	Kind     CommitmentKind
}
