package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/malta-bot/app/api"
	"github.com/Black-And-White-Club/malta-bot/app/modules"
	"github.com/Black-And-White-Club/malta-bot/app/modules/admin"
	"github.com/Black-And-White-Club/malta-bot/app/modules/gambling"
	"github.com/Black-And-White-Club/malta-bot/app/modules/lottery"
	"github.com/Black-And-White-Club/malta-bot/app/modules/mail"
	"github.com/Black-And-White-Club/malta-bot/app/modules/progression"
	"github.com/Black-And-White-Club/malta-bot/app/modules/shop"
	"github.com/Black-And-White-Club/malta-bot/app/modules/weather"
	"github.com/Black-And-White-Club/malta-bot/config"
	"github.com/Black-And-White-Club/malta-bot/internal/bundb"
	"github.com/Black-And-White-Club/malta-bot/internal/clock"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
	"github.com/Black-And-White-Club/malta-bot/internal/httpserver"
	"github.com/Black-And-White-Club/malta-bot/internal/observability"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/malta-bot/internal/queue"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// App wires the bot together.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bun.DB
	Bus           *eventbus.Bus
	EventRouter   *message.Router
	Mirror        *eventbus.NATSMirror
	Queue         *queue.Service
	Commands      *discord.Router
	Bot           *discord.Bot
	HTTP          *httpserver.Server
	Modules       *Modules

	wg sync.WaitGroup
}

// Modules holds every feature module.
type Modules struct {
	Progression *progression.Module
	Gambling    *gambling.Module
	Lottery     *lottery.Module
	Shop        *shop.Module
	Weather     *weather.Module
	Admin       *admin.Module
	Mail        *mail.Module
}

func (m *Modules) all() []Module {
	return []Module{m.Progression, m.Gambling, m.Lottery, m.Shop, m.Weather, m.Admin, m.Mail}
}

// NewApp creates an empty application.
func NewApp() *App {
	return &App{}
}

// Initialize connects infrastructure, applies migrations and builds the modules.
func (app *App) Initialize(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	app.Config = cfg

	app.Observability = observability.New(config.ToObsConfig(cfg))
	logger := app.Observability.Logger

	location, err := cfg.Location()
	if err != nil {
		return err
	}

	// Database
	db, err := bundb.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	app.DB = db
	if err := bundb.MigrateAll(ctx, logger, bundb.Migrators(db, Migrations())); err != nil {
		return err
	}

	// Queue
	q, err := queue.NewService(ctx, db, logger, cfg.Postgres.DSN, app.Observability.Metrics)
	if err != nil {
		return err
	}
	app.Queue = q
	if err := q.Migrate(ctx); err != nil {
		return err
	}

	// Event bus
	app.Bus = eventbus.New(logger)
	app.EventRouter, err = eventbus.NewRouter(logger)
	if err != nil {
		return fmt.Errorf("failed to create event router: %w", err)
	}
	if cfg.NATS.URL != "" {
		mirror, err := eventbus.NewNATSMirror(cfg.NATS.URL, logger)
		if err != nil {
			return err
		}
		mirror.Register(app.EventRouter, app.Bus, events.AllTopics)
		app.Mirror = mirror
		logger.InfoContext(ctx, "NATS mirror enabled", attr.String("url", cfg.NATS.URL))
	}

	// Discord
	app.Commands = discord.NewRouter(cfg.Discord.Prefix, app.Bus, logger, app.Observability.Tracer)
	app.Bot, err = discord.NewBot(cfg.Discord.Token, cfg.Discord.AppID, cfg.Discord.GuildID, app.Commands, logger)
	if err != nil {
		return err
	}

	deps := modules.Deps{
		Obs:        app.Observability,
		Config:     cfg,
		Location:   location,
		DB:         db,
		Publisher:  app.Bus,
		Subscriber: app.Bus,
		Router:     app.EventRouter,
		Commands:   app.Commands,
		Messenger:  app.Bot.Messenger(),
		Queue:      q,
		Clock:      clock.RealClock{},
	}
	if err := app.initializeModules(ctx, deps); err != nil {
		return err
	}

	// HTTP
	app.HTTP = httpserver.New(cfg.HTTP, app.Observability.Registry, map[string]httpserver.Check{
		"database": db.PingContext,
		"queue":    q.HealthCheck,
	}, logger)
	(&api.Handlers{
		Progression: app.Modules.Progression.ProgressionService,
		Gambling:    app.Modules.Gambling.GamblingService,
		Lottery:     app.Modules.Lottery.LotteryService,
		Shop:        app.Modules.Shop.ShopService,
		Weather:     app.Modules.Weather.WeatherService,
		Queue:       q,
		Logger:      logger,
	}).Routes(app.HTTP.API())

	logger.InfoContext(ctx, "Application initialized",
		attr.Int("commands", len(app.Commands.Commands())),
		attr.String("timezone", location.String()),
	)
	return nil
}

func (app *App) initializeModules(ctx context.Context, deps modules.Deps) error {
	progressionModule, err := progression.NewProgressionModule(ctx, deps)
	if err != nil {
		return fmt.Errorf("failed to initialize progression module: %w", err)
	}
	gamblingModule, err := gambling.NewGamblingModule(ctx, deps, progressionModule.Repository)
	if err != nil {
		return fmt.Errorf("failed to initialize gambling module: %w", err)
	}
	lotteryModule, err := lottery.NewLotteryModule(ctx, deps, progressionModule.Repository)
	if err != nil {
		return fmt.Errorf("failed to initialize lottery module: %w", err)
	}
	shopModule, err := shop.NewShopModule(ctx, deps, progressionModule.Repository, progressionModule.ProgressionService)
	if err != nil {
		return fmt.Errorf("failed to initialize shop module: %w", err)
	}
	weatherModule, err := weather.NewWeatherModule(ctx, deps)
	if err != nil {
		return fmt.Errorf("failed to initialize weather module: %w", err)
	}
	adminModule, err := admin.NewAdminModule(ctx, deps, progressionModule.Repository, lotteryModule.LotteryService, weatherModule.WeatherService)
	if err != nil {
		return fmt.Errorf("failed to initialize admin module: %w", err)
	}
	mailModule, err := mail.NewMailModule(ctx, deps)
	if err != nil {
		return fmt.Errorf("failed to initialize mail module: %w", err)
	}

	app.Modules = &Modules{
		Progression: progressionModule,
		Gambling:    gamblingModule,
		Lottery:     lotteryModule,
		Shop:        shopModule,
		Weather:     weatherModule,
		Admin:       adminModule,
		Mail:        mailModule,
	}
	return nil
}

// Close releases everything Initialize opened, in reverse order.
func (app *App) Close() error {
	var errs []error
	if app.Modules != nil {
		errs = append(errs, closeModules(app.Modules.all()...))
	}
	if app.Bot != nil {
		errs = append(errs, app.Bot.Close())
	}
	if app.EventRouter != nil {
		errs = append(errs, app.EventRouter.Close())
	}
	if app.Mirror != nil {
		errs = append(errs, app.Mirror.Close())
	}
	if app.Bus != nil {
		errs = append(errs, app.Bus.Close())
	}
	if app.DB != nil {
		errs = append(errs, app.DB.Close())
	}
	return errors.Join(errs...)
}
