package app

import (
	"context"
	"testing"
	"time"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

func TestAvailabilityService_Available(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return now.Add(time.Duration(h) * time.Hour) }
	window := domain.Interval{Start: at(2), End: at(4)}

	ledger := newFakeLedger(
		domain.InventoryItem{ID: "saw", Stock: domain.ExactStock(3)},
		domain.InventoryItem{ID: "tape", Stock: domain.QualitativeStock(domain.StockLevelHigh)},
	)
	ledger.addReservation(domain.Reservation{
		ID: "r1", Items: map[string]int{"saw": 2}, HolderID: "user-1",
		TimeCreated: now, TimeStart: at(1), TimeEnd: at(3),
	})
	svc := NewAvailabilityService(ledger)

	t.Run("counts overlapping commitments", func(t *testing.T) {
		ok, err := svc.Available(context.Background(), "saw", 2, window)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ok {
			t.Fatalf("expected 2+2 > 3 to be unavailable")
		}

		ok, err = svc.Available(context.Background(), "saw", 1, window)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ok {
			t.Fatalf("expected 2+1 <= 3 to be available")
		}
	})

	t.Run("ignores commitments outside the window", func(t *testing.T) {
		ok, err := svc.Available(context.Background(), "saw", 3, domain.Interval{Start: at(3), End: at(5)})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ok {
			t.Fatalf("expected full stock outside the reserved window")
		}
	})

	t.Run("qualitative stock is always available", func(t *testing.T) {
		ok, err := svc.Available(context.Background(), "tape", 1000, window)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ok {
			t.Fatalf("expected qualitative stock to be available")
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		if _, err := svc.Available(context.Background(), "saw", 0, window); err != domain.ErrInvalidQuantity {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
		if _, err := svc.Available(context.Background(), "saw", 1, domain.Interval{Start: at(4), End: at(4)}); err != domain.ErrInvalidWindow {
			t.Fatalf("expected ErrInvalidWindow, got %v", err)
		}
		if _, err := svc.Available(context.Background(), "missing", 1, window); err != domain.ErrItemNotFound {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
	})
}
