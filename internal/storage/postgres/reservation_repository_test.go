package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
	"github.com/HMC-Makerspace/MAKE-sub001/internal/testutil"
)

func TestReservationRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewReservationRepository(pool)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)

	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return now.Add(time.Duration(h) * time.Hour) }

	t.Run("create and read back a reservation", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		itemID := testutil.InsertItem(t, ctx, pool, "Projector", 3)

		reservation := domain.Reservation{
			ID:          "7b1d8c2f-1111-4222-8333-444455556666",
			Items:       map[string]int{itemID: 2},
			HolderID:    "user-1",
			TimeCreated: now,
			TimeStart:   at(2),
			TimeEnd:     at(4),
		}
		if err := repo.CreateReservation(ctx, reservation); err != nil {
			t.Fatalf("create reservation: %v", err)
		}

		got, err := repo.GetReservation(ctx, reservation.ID)
		if err != nil {
			t.Fatalf("get reservation: %v", err)
		}
		if got.Cancelled() || got.Items[itemID] != 2 {
			t.Fatalf("unexpected reservation %+v", got)
		}
	})

	t.Run("cancelled reservations drop out of the sum", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		itemID := testutil.InsertItem(t, ctx, pool, "Projector", 3)
		id := testutil.InsertReservation(t, ctx, pool, domain.Reservation{
			Items: map[string]int{itemID: 2}, HolderID: "user-1",
			TimeCreated: now, TimeStart: at(2), TimeEnd: at(4),
		})

		window := domain.Interval{Start: at(3), End: at(5)}
		total, err := repo.SumActiveReservations(ctx, itemID, window)
		if err != nil {
			t.Fatalf("sum active reservations: %v", err)
		}
		if total != 2 {
			t.Fatalf("expected 2 committed, got %d", total)
		}

		if err := repo.CancelReservation(ctx, id, now); err != nil {
			t.Fatalf("cancel reservation: %v", err)
		}
		if err := repo.CancelReservation(ctx, id, now); err != domain.ErrAlreadyClosed {
			t.Fatalf("expected ErrAlreadyClosed on second cancel, got %v", err)
		}

		total, err = repo.SumActiveReservations(ctx, itemID, window)
		if err != nil {
			t.Fatalf("sum active reservations: %v", err)
		}
		if total != 0 {
			t.Fatalf("expected cancelled reservation to free capacity, got %d", total)
		}

		// Audit record survives cancellation.
		got, err := repo.GetReservation(ctx, id)
		if err != nil {
			t.Fatalf("get reservation: %v", err)
		}
		if !got.Cancelled() {
			t.Fatalf("expected cancelled_at to be set")
		}
	})

	t.Run("list by holder", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		itemID := testutil.InsertItem(t, ctx, pool, "Projector", 3)
		testutil.InsertReservation(t, ctx, pool, domain.Reservation{
			Items: map[string]int{itemID: 1}, HolderID: "user-1",
			TimeCreated: now, TimeStart: at(2), TimeEnd: at(4),
		})
		testutil.InsertReservation(t, ctx, pool, domain.Reservation{
			Items: map[string]int{itemID: 1}, HolderID: "user-2",
			TimeCreated: now, TimeStart: at(2), TimeEnd: at(4),
		})

		reservations, err := repo.ListReservationsByHolder(ctx, "user-1")
		if err != nil {
			t.Fatalf("list reservations: %v", err)
		}
		if len(reservations) != 1 || reservations[0].HolderID != "user-1" {
			t.Fatalf("expected only user-1 reservations, got %+v", reservations)
		}
	})
}
