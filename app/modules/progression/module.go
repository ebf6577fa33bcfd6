package progression

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/malta-bot/app/modules"
	progressionservice "github.com/Black-And-White-Club/malta-bot/app/modules/progression/application"
	progressionhandlers "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/handlers"
	progressionjobs "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/jobs"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	progressionrouter "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/router"
	"github.com/Black-And-White-Club/malta-bot/internal/queue"
	"github.com/riverqueue/river"
)

// Module represents the progression module.
type Module struct {
	ProgressionService progressionservice.Service
	Repository         progressiondb.Repository
	cancelFunc         context.CancelFunc
	deps               modules.Deps
}

// NewProgressionModule creates and initializes a new progression module.
func NewProgressionModule(ctx context.Context, deps modules.Deps) (*Module, error) {
	logger := deps.Obs.Logger
	tracer := deps.Obs.Tracer
	cfg := deps.Config

	logger.InfoContext(ctx, "progression.NewProgressionModule initializing")

	// 1. Initialize Repository
	repo := progressiondb.NewRepository(deps.DB)

	// 2. Initialize Service
	service := progressionservice.NewProgressionService(repo, logger, deps.Obs.Metrics, tracer, deps.DB, deps.Clock, progressionservice.Config{
		Cooldown:        cfg.Game.PostCooldown,
		IgnoredChannels: cfg.Discord.IgnoredChannelIDs,
		HappyHourStart:  cfg.Game.HappyHourStart,
		HappyHourLength: cfg.Game.HappyHourDuration,
		Location:        deps.Location,
	})

	// 3. Initialize Handlers
	levelRoles, err := cfg.LevelRoleMap()
	if err != nil {
		return nil, err
	}
	handlers := progressionhandlers.NewProgressionHandlers(service, deps.Messenger, logger, tracer, deps.Clock, progressionhandlers.Config{
		GuildID:          cfg.Discord.GuildID,
		LevelUpChannelID: cfg.Discord.LevelUpChannelID,
		GeneralChannelID: cfg.Discord.GeneralChannelID,
		LevelRoles:       levelRoles,
		Location:         deps.Location,
	})

	// 4. Initialize Router
	router := progressionrouter.NewProgressionRouter(logger, deps.Router, deps.Subscriber, deps.Commands, tracer)
	if err := router.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure progression router: %w", err)
	}

	// 5. Register jobs
	river.AddWorker(deps.Queue.Workers(), progressionjobs.NewDecayWorker(service, logger))
	river.AddWorker(deps.Queue.Workers(), progressionjobs.NewHappyHourWorker(service, deps.Publisher, deps.Clock, logger))

	deps.Queue.AddPeriodicJob(queue.Every(cfg.Game.DecayInterval, progressionjobs.DecayArgs{}, true))
	schedule, err := queue.ParseCron(progressionjobs.HappyHourCron(cfg.Game.HappyHourStart), deps.Location)
	if err != nil {
		return nil, err
	}
	deps.Queue.AddPeriodicJob(queue.OnSchedule(schedule, progressionjobs.HappyHourArgs{}))

	return &Module{
		ProgressionService: service,
		Repository:         repo,
		deps:               deps,
	}, nil
}

// Run starts the progression module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.deps.Obs.Logger
	logger.InfoContext(ctx, "Starting progression module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Progression module goroutine stopped")
}

// Close shuts down the progression module.
func (m *Module) Close() error {
	logger := m.deps.Obs.Logger
	logger.Info("Stopping progression module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	logger.Info("Progression module stopped")
	return nil
}
