package lotterymigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating lottery tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS lottery_rounds (
					id UUID PRIMARY KEY,
					status VARCHAR(10) NOT NULL CHECK (status IN ('open', 'drawn')),
					seed_pot BIGINT NOT NULL DEFAULT 0 CHECK (seed_pot >= 0),
					total_tickets INTEGER NOT NULL DEFAULT 0 CHECK (total_tickets >= 0),
					pot BIGINT NOT NULL DEFAULT 0,
					winner_user_id VARCHAR(20),
					opened_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					drawn_at TIMESTAMPTZ
				);
			`); err != nil {
				return fmt.Errorf("failed to create lottery_rounds table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_lottery_rounds_one_open
				ON lottery_rounds (status) WHERE status = 'open';
			`); err != nil {
				return fmt.Errorf("failed to create open round index: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_lottery_rounds_drawn_at
				ON lottery_rounds (drawn_at DESC) WHERE status = 'drawn';
			`); err != nil {
				return fmt.Errorf("failed to create drawn_at index: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS lottery_entries (
					round_id UUID NOT NULL REFERENCES lottery_rounds(id) ON DELETE CASCADE,
					user_id VARCHAR(20) NOT NULL,
					tickets INTEGER NOT NULL CHECK (tickets > 0),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (round_id, user_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create lottery_entries table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping lottery tables...")
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS lottery_entries; DROP TABLE IF EXISTS lottery_rounds;`); err != nil {
			return fmt.Errorf("failed to drop lottery tables: %w", err)
		}
		return nil
	})
}
