package progressionrouter

import (
	"context"
	"fmt"
	"log/slog"

	progressionhandlers "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/handlers"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// ProgressionRouter registers the progression commands, the EXP message
// listener and the announcers.
type ProgressionRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber message.Subscriber
	commands   *discord.Router
	tracer     trace.Tracer
}

// NewProgressionRouter creates a new ProgressionRouter.
func NewProgressionRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	commands *discord.Router,
	tracer trace.Tracer,
) *ProgressionRouter {
	return &ProgressionRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		commands:   commands,
		tracer:     tracer,
	}
}

// Configure sets up the router with handlers.
func (r *ProgressionRouter) Configure(_ context.Context, handlers progressionhandlers.Handlers) error {
	err := r.commands.Register(progressionhandlers.Command(), map[string]discord.HandlerFunc{
		"stats":       handlers.HandleStats,
		"leaderboard": handlers.HandleLeaderboard,
		"retire":      handlers.HandleRetire,
		"multiplier":  handlers.HandleMultiplier,
	})
	if err != nil {
		return fmt.Errorf("failed to register /crpg: %w", err)
	}

	r.commands.AddMessageListener(handlers.HandleMessage)
	r.registerHandlers(handlers)
	return nil
}

// registerHandlers wires event topics to handler methods.
func (r *ProgressionRouter) registerHandlers(handlers progressionhandlers.Handlers) {
	deps := eventbus.HandlerDeps{
		Router:     r.router,
		Subscriber: r.subscriber,
		Logger:     r.logger,
		Tracer:     r.tracer,
	}

	r.logger.Info("Registering progression module handlers",
		slog.String("level_up_subject", events.ProgressionLevelUpV1),
		slog.String("retired_subject", events.ProgressionRetiredV1),
		slog.String("happy_hour_subject", events.ProgressionHappyHourV1),
	)

	eventbus.AddHandler(deps, "progression.level_up_announcer", events.ProgressionLevelUpV1, handlers.HandleLevelUp)
	eventbus.AddHandler(deps, "progression.retired_announcer", events.ProgressionRetiredV1, handlers.HandleRetired)
	eventbus.AddHandler(deps, "progression.happy_hour_announcer", events.ProgressionHappyHourV1, handlers.HandleHappyHour)

	r.logger.Info("Progression module handlers registered successfully")
}
