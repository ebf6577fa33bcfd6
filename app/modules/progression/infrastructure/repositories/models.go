package progressiondb

import (
	"time"

	"github.com/uptrace/bun"
)

// Player is one Discord member's progression and wallet.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	UserID          string     `bun:"user_id,pk"`
	Username        string     `bun:"username,notnull"`
	Level           int        `bun:"level,notnull,default:1"`
	Exp             int64      `bun:"exp,notnull,default:0"`
	TotalExp        int64      `bun:"total_exp,notnull,default:0"`
	Gold            int64      `bun:"gold,notnull,default:0"`
	HeirloomPoints  int64      `bun:"heirloom_points,notnull,default:0"`
	Retirements     int        `bun:"retirements,notnull,default:0"`
	DailyMultiplier float64    `bun:"daily_multiplier,notnull,default:1"`
	LastMessageAt   *time.Time `bun:"last_message_at,nullzero"`
	LastDailyAt     *time.Time `bun:"last_daily_at,nullzero"`
	LastDecayAt     *time.Time `bun:"last_decay_at,nullzero"`
	MessageCount    int64      `bun:"message_count,notnull,default:0"`
	CreatedAt       time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
