package weathermigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating weather tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS weather_states (
					region VARCHAR(64) PRIMARY KEY,
					condition VARCHAR(20) NOT NULL,
					temperature DOUBLE PRECISION NOT NULL,
					cloud_cover INTEGER NOT NULL CHECK (cloud_cover BETWEEN 0 AND 100),
					wind_speed INTEGER NOT NULL CHECK (wind_speed >= 0),
					narrative TEXT NOT NULL DEFAULT '',
					malta_minutes BIGINT NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create weather_states table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS weather_logs (
					id BIGSERIAL PRIMARY KEY,
					region VARCHAR(64) NOT NULL,
					condition VARCHAR(20) NOT NULL,
					temperature DOUBLE PRECISION NOT NULL,
					cloud_cover INTEGER NOT NULL,
					wind_speed INTEGER NOT NULL,
					malta_minutes BIGINT NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create weather_logs table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_weather_logs_region_id
				ON weather_logs (region, id DESC);
			`); err != nil {
				return fmt.Errorf("failed to create weather_logs index: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS malta_time_logs (
					id BIGSERIAL PRIMARY KEY,
					malta_minutes BIGINT NOT NULL,
					display TEXT NOT NULL,
					season VARCHAR(10) NOT NULL,
					real_time TIMESTAMPTZ NOT NULL
				);
			`); err != nil {
				return fmt.Errorf("failed to create malta_time_logs table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping weather tables...")
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS malta_time_logs; DROP TABLE IF EXISTS weather_logs; DROP TABLE IF EXISTS weather_states;`); err != nil {
			return fmt.Errorf("failed to drop weather tables: %w", err)
		}
		return nil
	})
}
