package shopservice

import (
	"context"
	"time"

	progressionservice "github.com/Black-And-White-Club/malta-bot/app/modules/progression/application"
	shopdomain "github.com/Black-And-White-Club/malta-bot/app/modules/shop/domain"
)

// Service defines the contract for the shop and inventories.
type Service interface {
	// Catalog lists every item for sale.
	Catalog() []shopdomain.Item

	// Buy debits the item's currency and grants quantity items.
	Buy(ctx context.Context, userID, itemID string, quantity int) (Trade, error)

	// Sell takes quantity gold-priced items back for half their price.
	Sell(ctx context.Context, userID, itemID string, quantity int) (Trade, error)

	// Use consumes one item and applies its effect.
	Use(ctx context.Context, userID, itemID string) (UseResult, error)

	// Inventory lists what a player holds.
	Inventory(ctx context.Context, userID string) ([]Holding, error)
}

// Trade describes a purchase or a sale.
type Trade struct {
	Item     shopdomain.Item
	Quantity int
	// Amount is the cost of a purchase or the refund of a sale.
	Amount  int64
	Balance int64
	Owned   int
}

// UseResult describes a consumed item.
type UseResult struct {
	Item            shopdomain.Item
	Remaining       int
	ExpGranted      int64
	LevelUp         *progressionservice.LevelUp
	DailyMultiplier float64
}

// Holding is one inventory line.
type Holding struct {
	Item       shopdomain.Item
	Quantity   int
	AcquiredAt time.Time
}
