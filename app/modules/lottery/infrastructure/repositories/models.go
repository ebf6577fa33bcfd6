package lotterydb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Round is one lottery round. Exactly one round is open at a time.
type Round struct {
	bun.BaseModel `bun:"table:lottery_rounds,alias:lr"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	Status       string    `bun:"status,notnull"`
	SeedPot      int64     `bun:"seed_pot,notnull"`
	TotalTickets int       `bun:"total_tickets,notnull"`
	Pot          int64     `bun:"pot,notnull"`
	WinnerUserID string    `bun:"winner_user_id,nullzero"`
	OpenedAt     time.Time `bun:"opened_at,nullzero,notnull,default:current_timestamp"`
	DrawnAt      time.Time `bun:"drawn_at,nullzero"`
}

// Entry is a player's tickets in a round.
type Entry struct {
	bun.BaseModel `bun:"table:lottery_entries,alias:le"`

	RoundID   uuid.UUID `bun:"round_id,pk,type:uuid"`
	UserID    string    `bun:"user_id,pk"`
	Tickets   int       `bun:"tickets,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
