package gamblingrouter

import (
	"context"
	"fmt"
	"log/slog"

	gamblingdomain "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/domain"
	gamblinghandlers "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/infrastructure/handlers"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/ratelimit"
)

// GamblingRouter registers the gambling commands.
type GamblingRouter struct {
	logger   *slog.Logger
	commands *discord.Router
	limiter  *ratelimit.Keyed
	table    gamblingdomain.Table
}

// NewGamblingRouter creates a new GamblingRouter. limiter throttles /gamble per user.
func NewGamblingRouter(logger *slog.Logger, commands *discord.Router, limiter *ratelimit.Keyed, table gamblingdomain.Table) *GamblingRouter {
	return &GamblingRouter{
		logger:   logger,
		commands: commands,
		limiter:  limiter,
		table:    table,
	}
}

// Configure sets up the router with handlers.
func (r *GamblingRouter) Configure(_ context.Context, handlers gamblinghandlers.Handlers) error {
	if err := r.commands.Register(gamblinghandlers.GambleCommand(r.table), map[string]discord.HandlerFunc{
		"": handlers.HandleGamble,
	}, discord.RateLimit(r.limiter)); err != nil {
		return fmt.Errorf("failed to register /gamble: %w", err)
	}
	if err := r.commands.Register(gamblinghandlers.StatsCommand(), map[string]discord.HandlerFunc{
		"": handlers.HandleStats,
	}); err != nil {
		return fmt.Errorf("failed to register /gamblestats: %w", err)
	}

	r.logger.Info("Gambling module commands registered successfully")
	return nil
}
