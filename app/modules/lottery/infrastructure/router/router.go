package lotteryrouter

import (
	"context"
	"fmt"
	"log/slog"

	lotterydomain "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/domain"
	lotteryhandlers "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/infrastructure/handlers"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
)

// LotteryRouter registers /lottery and the draw announcer.
type LotteryRouter struct {
	logger   *slog.Logger
	deps     eventbus.HandlerDeps
	commands *discord.Router
	rules    lotterydomain.Rules
}

// NewLotteryRouter creates a new LotteryRouter.
func NewLotteryRouter(logger *slog.Logger, deps eventbus.HandlerDeps, commands *discord.Router, rules lotterydomain.Rules) *LotteryRouter {
	return &LotteryRouter{
		logger:   logger,
		deps:     deps,
		commands: commands,
		rules:    rules,
	}
}

// Configure sets up the router with handlers.
func (r *LotteryRouter) Configure(_ context.Context, handlers lotteryhandlers.Handlers) error {
	err := r.commands.Register(lotteryhandlers.Command(r.rules), map[string]discord.HandlerFunc{
		"buy":     handlers.HandleBuy,
		"info":    handlers.HandleInfo,
		"history": handlers.HandleHistory,
	})
	if err != nil {
		return fmt.Errorf("failed to register /lottery: %w", err)
	}

	eventbus.AddHandler(r.deps, "lottery.drawn_announcer", events.LotteryDrawnV1, handlers.HandleDrawn)

	r.logger.Info("Lottery module handlers registered successfully",
		slog.String("drawn_subject", events.LotteryDrawnV1),
	)
	return nil
}
