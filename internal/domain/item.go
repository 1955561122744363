package domain

import "time"

// InventoryItem is a catalog entry the booking core treats as read-only
// during a single admission decision.
type InventoryItem struct {
	ID        string
	Name      string
	Stock     Stock
	CreatedAt time.Time
}
