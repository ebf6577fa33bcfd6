// Package lotterydomain holds the rules of the weekly lottery.
package lotterydomain

import (
	"errors"
	"sort"

	"github.com/Black-And-White-Club/malta-bot/internal/random"
)

// Round statuses.
const (
	StatusOpen  = "open"
	StatusDrawn = "drawn"
)

// DefaultHistorySize is how many drawn rounds /lottery history shows.
const DefaultHistorySize = 10

var (
	ErrInvalidTicketCount = errors.New("ticket count must be positive")
	ErrTicketLimit        = errors.New("ticket limit reached for this round")
	ErrNotEnoughGold      = errors.New("not enough gold for tickets")
	ErrInvalidRules       = errors.New("ticket price and limit must be positive")
)

// Rules are the ticket price and the per-player cap for one round.
type Rules struct {
	TicketPrice int64
	MaxTickets  int
}

// DefaultRules are 50 gold tickets, at most 100 per player per round.
var DefaultRules = Rules{TicketPrice: 50, MaxTickets: 100}

func (r Rules) Validate() error {
	if r.TicketPrice <= 0 || r.MaxTickets <= 0 {
		return ErrInvalidRules
	}
	return nil
}

// CheckPurchase validates buying n more tickets on top of held.
func (r Rules) CheckPurchase(held, n int) error {
	if n <= 0 {
		return ErrInvalidTicketCount
	}
	if held+n > r.MaxTickets {
		return ErrTicketLimit
	}
	return nil
}

// Cost is the gold price of n tickets.
func (r Rules) Cost(n int) int64 {
	return int64(n) * r.TicketPrice
}

// Pot is the seed pot plus every ticket sold.
func (r Rules) Pot(seedPot int64, totalTickets int) int64 {
	return seedPot + r.Cost(totalTickets)
}

// Entry is one player's tickets in a round.
type Entry struct {
	UserID  string
	Tickets int
}

// Draw is the outcome of picking a winner.
type Draw struct {
	WinnerUserID  string
	WinnerTickets int
	TotalTickets  int
	Participants  int
}

// HasWinner reports whether any ticket was sold.
func (d Draw) HasWinner() bool {
	return d.WinnerUserID != ""
}

// PickWinner expands entries into one slot per ticket, ordered by user ID, and
// picks a uniform index. Entries without tickets are ignored.
func PickWinner(entries []Entry, src random.Source) Draw {
	sorted := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Tickets > 0 {
			sorted = append(sorted, e)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].UserID < sorted[j].UserID })

	var slots []int
	for i, e := range sorted {
		for n := 0; n < e.Tickets; n++ {
			slots = append(slots, i)
		}
	}

	draw := Draw{TotalTickets: len(slots), Participants: len(sorted)}
	if len(slots) == 0 {
		return draw
	}
	winner := sorted[slots[src.Intn(len(slots))]]
	draw.WinnerUserID = winner.UserID
	draw.WinnerTickets = winner.Tickets
	return draw
}

// Odds is the chance that one of mine out of total tickets wins.
func Odds(mine, total int) float64 {
	if total <= 0 || mine <= 0 {
		return 0
	}
	return float64(mine) / float64(total)
}
