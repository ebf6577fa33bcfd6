package gamblingservice

import (
	"context"

	gamblingdomain "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/domain"
	gamblingdb "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/infrastructure/repositories"
)

// Service defines the contract for the gambling hall.
type Service interface {
	// Gamble settles one coin-flip bet of amount gold.
	Gamble(ctx context.Context, userID string, amount int64) (BetResult, error)

	// GetStats returns a player's gambling record.
	GetStats(ctx context.Context, userID string) (gamblingdomain.Record, error)

	// TopWinners returns the players with the highest net winnings.
	TopWinners(ctx context.Context, limit int) ([]gamblingdb.Stats, error)

	// Table returns the rules in force.
	Table() gamblingdomain.Table
}

// BetResult describes a settled bet.
type BetResult struct {
	UserID  string
	Amount  int64
	Won     bool
	Delta   int64
	Balance int64
	Record  gamblingdomain.Record
}
