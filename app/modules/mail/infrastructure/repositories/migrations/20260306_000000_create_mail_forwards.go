package mailmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating mail_forwards table...")

		if _, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS mail_forwards (
				message_key TEXT PRIMARY KEY,
				subject TEXT NOT NULL DEFAULT '',
				sender TEXT NOT NULL DEFAULT '',
				received_at TIMESTAMPTZ,
				forwarded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`); err != nil {
			return fmt.Errorf("failed to create mail_forwards table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping mail_forwards table...")
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS mail_forwards;`); err != nil {
			return fmt.Errorf("failed to drop mail_forwards table: %w", err)
		}
		return nil
	})
}
