package shop

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/malta-bot/app/modules"
	progressionservice "github.com/Black-And-White-Club/malta-bot/app/modules/progression/application"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	shopservice "github.com/Black-And-White-Club/malta-bot/app/modules/shop/application"
	shophandlers "github.com/Black-And-White-Club/malta-bot/app/modules/shop/infrastructure/handlers"
	shopdb "github.com/Black-And-White-Club/malta-bot/app/modules/shop/infrastructure/repositories"
	shoprouter "github.com/Black-And-White-Club/malta-bot/app/modules/shop/infrastructure/router"
)

// Module represents the shop module.
type Module struct {
	ShopService shopservice.Service
	cancelFunc  context.CancelFunc
	deps        modules.Deps
}

// NewShopModule creates and initializes a new shop module.
func NewShopModule(ctx context.Context, deps modules.Deps, wallet progressiondb.Wallet, effects progressionservice.Effects) (*Module, error) {
	logger := deps.Obs.Logger
	tracer := deps.Obs.Tracer

	logger.InfoContext(ctx, "shop.NewShopModule initializing")

	// 1. Initialize Repository
	repo := shopdb.NewRepository(deps.DB)

	// 2. Initialize Service
	service := shopservice.NewShopService(repo, wallet, effects, logger, deps.Obs.Metrics, tracer, deps.DB)

	// 3. Initialize Handlers
	handlers := shophandlers.NewShopHandlers(service, logger, tracer, deps.Clock)

	// 4. Initialize Router
	router := shoprouter.NewShopRouter(logger, deps.Commands)
	if err := router.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure shop router: %w", err)
	}

	return &Module{
		ShopService: service,
		deps:        deps,
	}, nil
}

// Run starts the shop module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.deps.Obs.Logger
	logger.InfoContext(ctx, "Starting shop module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Shop module goroutine stopped")
}

// Close shuts down the shop module.
func (m *Module) Close() error {
	m.deps.Obs.Logger.Info("Stopping shop module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
