package gambling

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/malta-bot/app/modules"
	gamblingservice "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/application"
	gamblingdomain "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/domain"
	gamblinghandlers "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/infrastructure/handlers"
	gamblingdb "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/infrastructure/repositories"
	gamblingrouter "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/infrastructure/router"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/random"
	"github.com/Black-And-White-Club/malta-bot/internal/ratelimit"
)

// Module represents the gambling module.
type Module struct {
	GamblingService gamblingservice.Service
	cancelFunc      context.CancelFunc
	deps            modules.Deps
}

// NewGamblingModule creates and initializes a new gambling module.
func NewGamblingModule(ctx context.Context, deps modules.Deps, wallet progressiondb.Wallet) (*Module, error) {
	logger := deps.Obs.Logger
	tracer := deps.Obs.Tracer

	logger.InfoContext(ctx, "gambling.NewGamblingModule initializing")

	table := gamblingdomain.Table{
		WinChance: deps.Config.Game.WinChance,
		MinBet:    deps.Config.Game.MinBet,
		MaxBet:    deps.Config.Game.MaxBet,
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}

	rng, err := random.NewFromCrypto()
	if err != nil {
		return nil, err
	}

	// 1. Initialize Repository
	repo := gamblingdb.NewRepository(deps.DB)

	// 2. Initialize Service
	service := gamblingservice.NewGamblingService(repo, wallet, rng, table, logger, deps.Obs.Metrics, tracer, deps.DB, deps.Clock)

	// 3. Initialize Handlers
	handlers := gamblinghandlers.NewGamblingHandlers(service, logger, tracer)

	// 4. Initialize Router
	limiter := ratelimit.Every(gamblingdomain.BetInterval, gamblingdomain.BetBurst)
	router := gamblingrouter.NewGamblingRouter(logger, deps.Commands, limiter, table)
	if err := router.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure gambling router: %w", err)
	}

	return &Module{
		GamblingService: service,
		deps:            deps,
	}, nil
}

// Run starts the gambling module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.deps.Obs.Logger
	logger.InfoContext(ctx, "Starting gambling module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Gambling module goroutine stopped")
}

// Close shuts down the gambling module.
func (m *Module) Close() error {
	m.deps.Obs.Logger.Info("Stopping gambling module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
