package gamblingdomain

import (
	"errors"
	"time"

	"github.com/Black-And-White-Club/malta-bot/internal/random"
)

const (
	// BetInterval and BetBurst throttle bets per player.
	BetInterval = 3 * time.Second
	BetBurst    = 2
)

var (
	ErrBetTooSmall     = errors.New("bet below the table minimum")
	ErrBetTooLarge     = errors.New("bet above the table maximum")
	ErrNotEnoughGold   = errors.New("bet exceeds available gold")
	ErrInvalidWinRatio = errors.New("win chance must be in (0, 1)")
)

// Table holds the coin-flip rules.
type Table struct {
	WinChance float64
	MinBet    int64
	MaxBet    int64
}

// DefaultTable is the house table.
var DefaultTable = Table{WinChance: 0.48, MinBet: 10, MaxBet: 5000}

// Validate checks the table configuration.
func (t Table) Validate() error {
	if t.WinChance <= 0 || t.WinChance >= 1 {
		return ErrInvalidWinRatio
	}
	return nil
}

// CheckBet validates amount against the table limits and the player's balance.
func (t Table) CheckBet(amount, balance int64) error {
	switch {
	case amount < t.MinBet:
		return ErrBetTooSmall
	case amount > t.MaxBet:
		return ErrBetTooLarge
	case amount > balance:
		return ErrNotEnoughGold
	}
	return nil
}

// Flip returns true on a win. A roll strictly below WinChance wins.
func (t Table) Flip(src random.Source) bool {
	return src.Float64() < t.WinChance
}

// Delta is the gold change for a settled bet: even money either way.
func Delta(amount int64, won bool) int64 {
	if won {
		return amount
	}
	return -amount
}

// Record is a player's running gambling record.
type Record struct {
	GamesPlayed   int64
	Wins          int64
	Losses        int64
	TotalWagered  int64
	NetWinnings   int64
	BiggestWin    int64
	BiggestLoss   int64
	CurrentStreak int64
	BestStreak    int64
}

// Apply folds one settled bet into the record. CurrentStreak is positive for a
// run of wins and negative for a run of losses; BestStreak is the longest win run.
func (r Record) Apply(amount int64, won bool) Record {
	r.GamesPlayed++
	r.TotalWagered += amount
	if won {
		r.Wins++
		r.NetWinnings += amount
		r.BiggestWin = max(r.BiggestWin, amount)
		if r.CurrentStreak > 0 {
			r.CurrentStreak++
		} else {
			r.CurrentStreak = 1
		}
		r.BestStreak = max(r.BestStreak, r.CurrentStreak)
		return r
	}

	r.Losses++
	r.NetWinnings -= amount
	r.BiggestLoss = max(r.BiggestLoss, amount)
	if r.CurrentStreak < 0 {
		r.CurrentStreak--
	} else {
		r.CurrentStreak = -1
	}
	return r
}

// WinRate returns wins / games, or 0 with no games.
func (r Record) WinRate() float64 {
	if r.GamesPlayed == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.GamesPlayed)
}
