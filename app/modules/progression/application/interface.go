package progressionservice

import (
	"context"
	"time"

	progressiondomain "github.com/Black-And-White-Club/malta-bot/app/modules/progression/domain"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// Service defines the contract for progression operations.
type Service interface {
	// AwardMessage grants EXP and gold for an eligible guild message.
	AwardMessage(ctx context.Context, msg MessageInput) (AwardResult, error)

	// GetStats returns a player's progression summary.
	GetStats(ctx context.Context, userID string) (PlayerStats, error)

	// Retire resets a player's level in exchange for heirloom points and a
	// permanent generational multiplier.
	Retire(ctx context.Context, userID string, confirm bool) (RetireResult, error)

	// Leaderboard returns the top players.
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// DecayMultipliers applies one decay step to every idle player.
	DecayMultipliers(ctx context.Context) (int, error)

	// HappyHourStatus reports whether Happy Hour is on at now.
	HappyHourStatus(now time.Time) HappyHourStatus

	// AdjustGold credits or debits a player's gold.
	AdjustGold(ctx context.Context, userID string, delta int64) (int64, error)

	// ListPlayers returns every player.
	ListPlayers(ctx context.Context) ([]progressiondb.Player, error)

	Effects
}

// Effects are progression changes other modules apply inside their own
// transaction (db is that transaction).
type Effects interface {
	GrantExp(ctx context.Context, db bun.IDB, userID string, exp int64) (*LevelUp, error)
	BoostDaily(ctx context.Context, db bun.IDB, userID string, delta float64) (float64, error)
}

// MessageInput is a guild message considered for rewards.
type MessageInput struct {
	MessageID string
	UserID    string
	Username  string
	GuildID   string
	ChannelID string
	Content   string
	Bot       bool
}

// AwardResult describes what a message earned.
type AwardResult struct {
	Awarded         bool
	Reason          progressiondomain.SkipReason
	ExpGained       int64
	GoldGained      int64
	LevelBonus      int64
	OldLevel        int
	NewLevel        int
	HappyHour       bool
	DailyBumped     bool
	DailyMultiplier float64
}

// LevelsGained returns the number of levels crossed.
func (r AwardResult) LevelsGained() int {
	return r.NewLevel - r.OldLevel
}

// PlayerStats is the /crpg stats view of a player.
type PlayerStats struct {
	UserID                 string
	Username               string
	Level                  int
	Exp                    int64
	ExpToNext              int64
	TotalExp               int64
	Gold                   int64
	HeirloomPoints         int64
	Retirements            int
	MessageCount           int64
	DailyMultiplier        float64
	GenerationalMultiplier float64
	EffectiveMultiplier    float64
	HappyHour              HappyHourStatus
}

// HappyHourStatus describes the current Happy Hour window.
type HappyHourStatus struct {
	Active    bool
	EndsAt    time.Time
	NextStart time.Time
}

// RetireResult is returned by a successful retirement.
type RetireResult struct {
	UserID                    string
	Username                  string
	OldLevel                  int
	HeirloomAwarded           int64
	HeirloomTotal             int64
	Retirements               int
	NewGenerationalMultiplier float64
}

// LeaderboardEntry is one leaderboard row.
type LeaderboardEntry struct {
	Rank        int
	UserID      string
	Username    string
	Level       int
	Retirements int
	TotalExp    int64
}

// LevelUp is returned by GrantExp.
type LevelUp struct {
	UserID    string
	Username  string
	OldLevel  int
	NewLevel  int
	GoldBonus int64
}

// Leveled reports whether any level was gained.
func (l *LevelUp) Leveled() bool {
	return l != nil && l.NewLevel > l.OldLevel
}
