package gamblingdb

import (
	"time"

	gamblingdomain "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/domain"
	"github.com/uptrace/bun"
)

// Stats is a player's gambling record.
type Stats struct {
	bun.BaseModel `bun:"table:gambling_stats,alias:gs"`

	UserID        string    `bun:"user_id,pk"`
	GamesPlayed   int64     `bun:"games_played,notnull"`
	Wins          int64     `bun:"wins,notnull"`
	Losses        int64     `bun:"losses,notnull"`
	TotalWagered  int64     `bun:"total_wagered,notnull"`
	NetWinnings   int64     `bun:"net_winnings,notnull"`
	BiggestWin    int64     `bun:"biggest_win,notnull"`
	BiggestLoss   int64     `bun:"biggest_loss,notnull"`
	CurrentStreak int64     `bun:"current_streak,notnull"`
	BestStreak    int64     `bun:"best_streak,notnull"`
	LastPlayedAt  time.Time `bun:"last_played_at,nullzero"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Record converts the row to the domain record.
func (s *Stats) Record() gamblingdomain.Record {
	return gamblingdomain.Record{
		GamesPlayed:   s.GamesPlayed,
		Wins:          s.Wins,
		Losses:        s.Losses,
		TotalWagered:  s.TotalWagered,
		NetWinnings:   s.NetWinnings,
		BiggestWin:    s.BiggestWin,
		BiggestLoss:   s.BiggestLoss,
		CurrentStreak: s.CurrentStreak,
		BestStreak:    s.BestStreak,
	}
}

// SetRecord copies a domain record into the row.
func (s *Stats) SetRecord(r gamblingdomain.Record) {
	s.GamesPlayed = r.GamesPlayed
	s.Wins = r.Wins
	s.Losses = r.Losses
	s.TotalWagered = r.TotalWagered
	s.NetWinnings = r.NetWinnings
	s.BiggestWin = r.BiggestWin
	s.BiggestLoss = r.BiggestLoss
	s.CurrentStreak = r.CurrentStreak
	s.BestStreak = r.BestStreak
}
