package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Black-And-White-Club/malta-bot/app"
	"github.com/Black-And-White-Club/malta-bot/config"
	"github.com/Black-And-White-Club/malta-bot/internal/httpserver"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	cliApp := &cli.App{
		Name:  "malta",
		Usage: "Discord RPG economy bot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		DefaultCommand: "run",
		Commands: []*cli.Command{
			runCommand(),
			tokenCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run the bot",
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := app.WithShutdownSignals(c.Context)
			defer cancel()

			application := app.NewApp()
			defer func() {
				if err := application.Close(); err != nil {
					log.Printf("shutdown finished with errors: %v", err)
				}
			}()

			if err := application.Initialize(ctx, cfg); err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue a bearer token for the read API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Value: "dashboard", Usage: "token subject"},
			&cli.StringFlag{Name: "scope", Value: "read", Usage: "token scope"},
			&cli.DurationFlag{Name: "ttl", Value: 30 * 24 * time.Hour, Usage: "token lifetime"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			token, err := httpserver.NewTokenAuth(cfg.HTTP.JWTSecret).Issue(c.String("subject"), c.String("scope"), c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
