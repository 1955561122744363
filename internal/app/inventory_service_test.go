package app

import (
	"context"
	"testing"
	"time"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/clock"
	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

func TestInventoryService_CreateItem(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("creates item with exact stock", func(t *testing.T) {
		ledger := newFakeLedger()
		svc := NewInventoryService(ledger, clock.NewFixed(now))

		item, err := svc.CreateItem(context.Background(), CreateItemInput{
			Name:  "Cordless Drill",
			Stock: domain.ExactStock(4),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if item.ID == "" {
			t.Fatalf("expected item ID to be set")
		}
		if item.CreatedAt != now {
			t.Fatalf("expected created_at %v, got %v", now, item.CreatedAt)
		}
		if !item.Stock.Tracked() || item.Stock.Units() != 4 {
			t.Fatalf("expected exact stock of 4, got %+v", item.Stock)
		}
	})

	t.Run("name is required", func(t *testing.T) {
		svc := NewInventoryService(newFakeLedger(), clock.NewFixed(now))

		if _, err := svc.CreateItem(context.Background(), CreateItemInput{
			Stock: domain.ExactStock(1),
		}); err != domain.ErrItemNameRequired {
			t.Fatalf("expected ErrItemNameRequired, got %v", err)
		}
	})
}
