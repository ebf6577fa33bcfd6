package shopdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for inventory persistence.
type Repository interface {
	// ListInventory returns a player's items ordered by item ID.
	ListInventory(ctx context.Context, db bun.IDB, userID string) ([]InventoryItem, error)

	// GetItem returns one holding.
	GetItem(ctx context.Context, db bun.IDB, userID, itemID string) (*InventoryItem, error)

	// AddItem upserts quantity and returns the new total.
	AddItem(ctx context.Context, db bun.IDB, userID, itemID string, quantity int) (int, error)

	// RemoveItem takes quantity away and returns what is left. A holding that
	// reaches zero is deleted. Returns ErrNotEnoughItems instead of going negative.
	RemoveItem(ctx context.Context, db bun.IDB, userID, itemID string, quantity int) (int, error)
}
