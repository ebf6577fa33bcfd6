package progressionhandlers

import (
	"context"

	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
)

// Handlers defines the progression command, message and event handlers.
type Handlers interface {
	// HandleStats answers /crpg stats [user].
	HandleStats(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	// HandleLeaderboard answers /crpg leaderboard [size].
	HandleLeaderboard(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	// HandleRetire answers /crpg retire confirm:<bool>.
	HandleRetire(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	// HandleMultiplier answers /crpg multiplier.
	HandleMultiplier(ctx context.Context, cmd *discord.Command) (*discord.Response, error)

	// HandleMessage awards EXP for an ordinary guild message.
	HandleMessage(ctx context.Context, msg *discord.Message) ([]eventbus.Result, error)

	// HandleLevelUp announces level-ups and grants level roles.
	HandleLevelUp(ctx context.Context, payload *events.LevelUpPayloadV1) error
	// HandleRetired announces retirements.
	HandleRetired(ctx context.Context, payload *events.RetiredPayloadV1) error
	// HandleHappyHour announces the start of Happy Hour.
	HandleHappyHour(ctx context.Context, payload *events.HappyHourPayloadV1) error
}
