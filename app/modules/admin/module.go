package admin

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/malta-bot/app/modules"
	adminservice "github.com/Black-And-White-Club/malta-bot/app/modules/admin/application"
	adminhandlers "github.com/Black-And-White-Club/malta-bot/app/modules/admin/infrastructure/handlers"
	adminrouter "github.com/Black-And-White-Club/malta-bot/app/modules/admin/infrastructure/router"
	lotteryservice "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/application"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	weatherservice "github.com/Black-And-White-Club/malta-bot/app/modules/weather/application"
)

// Module represents the admin module.
type Module struct {
	AdminService adminservice.Service
	cancelFunc   context.CancelFunc
	deps         modules.Deps
}

// NewAdminModule creates and initializes a new admin module. It depends on the
// player store, lottery and weather services of the other modules.
func NewAdminModule(
	ctx context.Context,
	deps modules.Deps,
	players progressiondb.Repository,
	lottery lotteryservice.Service,
	weather weatherservice.Service,
) (*Module, error) {
	logger := deps.Obs.Logger
	tracer := deps.Obs.Tracer

	logger.InfoContext(ctx, "admin.NewAdminModule initializing")

	// 1. Initialize Service
	service := adminservice.NewAdminService(adminservice.Deps{
		Players:   players,
		Lottery:   lottery,
		Weather:   weather,
		Queue:     deps.Queue,
		Messenger: deps.Messenger,
		Location:  deps.Location,
		Logger:    logger,
		Metrics:   deps.Obs.Metrics,
		Tracer:    tracer,
		DB:        deps.DB,
		Clock:     deps.Clock,
	})

	// 2. Initialize Handlers
	handlers := adminhandlers.NewAdminHandlers(service, logger, tracer)

	// 3. Initialize Router
	router := adminrouter.NewAdminRouter(logger, deps.Commands, deps.Config.Discord.AdminRoleID)
	if err := router.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure admin router: %w", err)
	}

	return &Module{
		AdminService: service,
		deps:         deps,
	}, nil
}

// Run starts the admin module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.deps.Obs.Logger
	logger.InfoContext(ctx, "Starting admin module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Admin module goroutine stopped")
}

// Close shuts down the admin module.
func (m *Module) Close() error {
	m.deps.Obs.Logger.Info("Stopping admin module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
