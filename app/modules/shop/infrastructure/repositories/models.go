package shopdb

import (
	"time"

	"github.com/uptrace/bun"
)

// InventoryItem is how many of one item a player holds.
type InventoryItem struct {
	bun.BaseModel `bun:"table:inventory,alias:inv"`

	UserID     string    `bun:"user_id,pk"`
	ItemID     string    `bun:"item_id,pk"`
	Quantity   int       `bun:"quantity,notnull"`
	AcquiredAt time.Time `bun:"acquired_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
