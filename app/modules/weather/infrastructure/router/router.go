package weatherrouter

import (
	"context"
	"fmt"
	"log/slog"

	weatherdomain "github.com/Black-And-White-Club/malta-bot/app/modules/weather/domain"
	weatherhandlers "github.com/Black-And-White-Club/malta-bot/app/modules/weather/infrastructure/handlers"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
)

// WeatherRouter registers /weather, /time and the bulletin poster.
type WeatherRouter struct {
	logger   *slog.Logger
	deps     eventbus.HandlerDeps
	commands *discord.Router
	regions  []weatherdomain.Region
}

// NewWeatherRouter creates a new WeatherRouter.
func NewWeatherRouter(logger *slog.Logger, deps eventbus.HandlerDeps, commands *discord.Router, regions []weatherdomain.Region) *WeatherRouter {
	return &WeatherRouter{
		logger:   logger,
		deps:     deps,
		commands: commands,
		regions:  regions,
	}
}

// Configure sets up the router with handlers.
func (r *WeatherRouter) Configure(_ context.Context, handlers weatherhandlers.Handlers) error {
	err := r.commands.Register(weatherhandlers.WeatherCommand(r.regions), map[string]discord.HandlerFunc{
		"now":     handlers.HandleNow,
		"all":     handlers.HandleAll,
		"history": handlers.HandleHistory,
	})
	if err != nil {
		return fmt.Errorf("failed to register /weather: %w", err)
	}
	r.commands.Defer("weather history")

	if err := r.commands.Register(weatherhandlers.TimeCommand(), map[string]discord.HandlerFunc{
		"now": handlers.HandleTime,
	}); err != nil {
		return fmt.Errorf("failed to register /time: %w", err)
	}

	eventbus.AddHandler(r.deps, "weather.bulletin", events.WeatherUpdatedV1, handlers.HandleUpdated)

	r.logger.Info("Weather module handlers registered successfully",
		slog.String("updated_subject", events.WeatherUpdatedV1),
	)
	return nil
}
