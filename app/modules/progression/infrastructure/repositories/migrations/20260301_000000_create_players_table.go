package progressionmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating players table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS players (
					user_id VARCHAR(20) PRIMARY KEY,
					username VARCHAR(100) NOT NULL DEFAULT '',
					level INTEGER NOT NULL DEFAULT 1 CHECK (level BETWEEN 1 AND 38),
					exp BIGINT NOT NULL DEFAULT 0 CHECK (exp >= 0),
					total_exp BIGINT NOT NULL DEFAULT 0,
					gold BIGINT NOT NULL DEFAULT 0 CHECK (gold >= 0),
					heirloom_points BIGINT NOT NULL DEFAULT 0 CHECK (heirloom_points >= 0),
					retirements INTEGER NOT NULL DEFAULT 0,
					daily_multiplier DOUBLE PRECISION NOT NULL DEFAULT 1 CHECK (daily_multiplier BETWEEN 1 AND 5),
					last_message_at TIMESTAMPTZ,
					last_daily_at TIMESTAMPTZ,
					last_decay_at TIMESTAMPTZ,
					message_count BIGINT NOT NULL DEFAULT 0,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_players_leaderboard ON players (retirements DESC, level DESC, total_exp DESC);
				CREATE INDEX IF NOT EXISTS idx_players_decay ON players (last_message_at) WHERE daily_multiplier > 1;
			`); err != nil {
				return fmt.Errorf("failed to create players table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping players table...")
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS players;`); err != nil {
			return fmt.Errorf("failed to drop players table: %w", err)
		}
		return nil
	})
}
