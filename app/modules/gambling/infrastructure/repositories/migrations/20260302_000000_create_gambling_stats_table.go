package gamblingmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating gambling_stats table...")

		if _, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS gambling_stats (
				user_id VARCHAR(20) PRIMARY KEY,
				games_played BIGINT NOT NULL DEFAULT 0,
				wins BIGINT NOT NULL DEFAULT 0,
				losses BIGINT NOT NULL DEFAULT 0,
				total_wagered BIGINT NOT NULL DEFAULT 0,
				net_winnings BIGINT NOT NULL DEFAULT 0,
				biggest_win BIGINT NOT NULL DEFAULT 0,
				biggest_loss BIGINT NOT NULL DEFAULT 0,
				current_streak BIGINT NOT NULL DEFAULT 0,
				best_streak BIGINT NOT NULL DEFAULT 0,
				last_played_at TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`); err != nil {
			return fmt.Errorf("failed to create gambling_stats table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping gambling_stats table...")
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS gambling_stats;`); err != nil {
			return fmt.Errorf("failed to drop gambling_stats table: %w", err)
		}
		return nil
	})
}
