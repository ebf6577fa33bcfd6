package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/Black-And-White-Club/malta-bot/app"
	"github.com/Black-And-White-Club/malta-bot/config"
	"github.com/Black-And-White-Club/malta-bot/internal/bundb"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	cliApp := &cli.App{
		Name: "bun",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
		},
		Commands: []*cli.Command{
			newMultiModuleDBCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openMigrators connects using only the database settings of the config.
func openMigrators(ctx context.Context, c *cli.Context) (map[string]*migrate.Migrator, func(), error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := bundb.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, err
	}
	return bundb.Migrators(db, app.Migrations()), func() { db.Close() }, nil
}

func sortedNames(migrators map[string]*migrate.Migrator) []string {
	names := make([]string, 0, len(migrators))
	for name := range migrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// forEachModule runs fn against every module's migrator in name order.
func forEachModule(fn func(c *cli.Context, moduleName string, migrator *migrate.Migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		migrators, closeDB, err := openMigrators(c.Context, c)
		if err != nil {
			return err
		}
		defer closeDB()

		for _, moduleName := range sortedNames(migrators) {
			if err := fn(c, moduleName, migrators[moduleName]); err != nil {
				return err
			}
		}
		return nil
	}
}

// forModule runs fn against the migrator named by the first argument.
func forModule(fn func(c *cli.Context, moduleName string, migrator *migrate.Migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		migrators, closeDB, err := openMigrators(c.Context, c)
		if err != nil {
			return err
		}
		defer closeDB()

		moduleName := c.Args().First()
		migrator, ok := migrators[moduleName]
		if !ok {
			return fmt.Errorf("invalid module name: %s (have %s)", moduleName, strings.Join(sortedNames(migrators), ", "))
		}
		return fn(c, moduleName, migrator)
	}
}

func newMultiModuleDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: forEachModule(func(c *cli.Context, moduleName string, migrator *migrate.Migrator) error {
					fmt.Printf("Initializing migrations for module: %s\n", moduleName)
					return migrator.Init(c.Context)
				}),
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: forEachModule(func(c *cli.Context, moduleName string, migrator *migrate.Migrator) error {
					if err := migrator.Lock(c.Context); err != nil {
						return err
					}
					defer migrator.Unlock(c.Context) //nolint:errcheck

					group, err := migrator.Migrate(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Printf("No new migrations to run for module: %s\n", moduleName)
					} else {
						fmt.Printf("Migrated module: %s to %s\n", moduleName, group)
					}
					return nil
				}),
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group of one module",
				Action: forModule(func(c *cli.Context, moduleName string, migrator *migrate.Migrator) error {
					if err := migrator.Lock(c.Context); err != nil {
						return err
					}
					defer migrator.Unlock(c.Context) //nolint:errcheck

					group, err := migrator.Rollback(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Printf("No groups to roll back for module: %s\n", moduleName)
					} else {
						fmt.Printf("Rolled back module: %s to %s\n", moduleName, group)
					}
					return nil
				}),
			},
			{
				Name:  "create_go",
				Usage: "create Go migration",
				Action: forModule(func(c *cli.Context, moduleName string, migrator *migrate.Migrator) error {
					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: forEachModule(func(c *cli.Context, moduleName string, migrator *migrate.Migrator) error {
					ms, err := migrator.MigrationsWithStatus(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("Migrations for module: %s\n", moduleName)
					fmt.Printf("  %s\n", ms)
					fmt.Printf("  Applied: %s\n", ms.Applied())
					fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					return nil
				}),
			},
		},
	}
}
