package shopmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating inventory table...")

		if _, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS inventory (
				user_id VARCHAR(20) NOT NULL,
				item_id VARCHAR(50) NOT NULL,
				quantity INTEGER NOT NULL CHECK (quantity >= 0),
				acquired_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (user_id, item_id)
			);
		`); err != nil {
			return fmt.Errorf("failed to create inventory table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping inventory table...")
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS inventory;`); err != nil {
			return fmt.Errorf("failed to drop inventory table: %w", err)
		}
		return nil
	})
}
