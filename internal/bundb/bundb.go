package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// Open connects to Postgres through pgdriver and verifies the connection.
func Open(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// Migrators builds one migrator per module, each with its own bookkeeping tables
// so modules can be rolled back independently.
func Migrators(db *bun.DB, groups map[string]*migrate.Migrations) map[string]*migrate.Migrator {
	out := make(map[string]*migrate.Migrator, len(groups))
	for name, migrations := range groups {
		out[name] = migrate.NewMigrator(db, migrations,
			migrate.WithTableName("bun_migrations_"+name),
			migrate.WithLocksTableName("bun_migration_locks_"+name),
		)
	}
	return out
}

// MigrateAll initializes and applies every module's pending migrations in name order.
func MigrateAll(ctx context.Context, logger *slog.Logger, migrators map[string]*migrate.Migrator) error {
	names := make([]string, 0, len(migrators))
	for name := range migrators {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		migrator := migrators[name]
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init migrations for %s: %w", name, err)
		}
		if err := migrator.Lock(ctx); err != nil {
			return fmt.Errorf("failed to lock migrations for %s: %w", name, err)
		}
		group, err := migrator.Migrate(ctx)
		unlockErr := migrator.Unlock(ctx)
		if err != nil {
			return fmt.Errorf("failed to migrate %s: %w", name, err)
		}
		if unlockErr != nil {
			return fmt.Errorf("failed to unlock migrations for %s: %w", name, unlockErr)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No new migrations", attr.String("module", name))
			continue
		}
		logger.InfoContext(ctx, "Migrated module", attr.String("module", name), attr.String("group", group.String()))
	}
	return nil
}
