// Package modules holds what the application hands to every feature module.
package modules

import (
	"time"

	"github.com/Black-And-White-Club/malta-bot/config"
	"github.com/Black-And-White-Club/malta-bot/internal/clock"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/Black-And-White-Club/malta-bot/internal/observability"
	"github.com/Black-And-White-Club/malta-bot/internal/queue"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Deps are the shared dependencies a module is built from.
type Deps struct {
	Obs        *observability.Observability
	Config     *config.Config
	Location   *time.Location
	DB         *bun.DB
	Publisher  eventbus.Publisher
	Subscriber message.Subscriber
	Router     *message.Router
	Commands   *discord.Router
	Messenger  discord.Messenger
	Queue      queue.QueueService
	Clock      clock.Clock
}

// HandlerDeps returns the event-handler registration bundle.
func (d Deps) HandlerDeps() eventbus.HandlerDeps {
	return eventbus.HandlerDeps{
		Router:     d.Router,
		Subscriber: d.Subscriber,
		Logger:     d.Obs.Logger,
		Tracer:     d.Obs.Tracer,
	}
}
