package lottery

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/malta-bot/app/modules"
	lotteryservice "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/application"
	lotterydomain "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/domain"
	lotteryhandlers "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/infrastructure/handlers"
	lotteryjobs "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/infrastructure/jobs"
	lotterydb "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/infrastructure/repositories"
	lotteryrouter "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/infrastructure/router"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/queue"
	"github.com/Black-And-White-Club/malta-bot/internal/random"
	"github.com/riverqueue/river"
)

// Module represents the lottery module.
type Module struct {
	LotteryService lotteryservice.Service
	cancelFunc     context.CancelFunc
	deps           modules.Deps
}

// NewLotteryModule creates and initializes a new lottery module.
func NewLotteryModule(ctx context.Context, deps modules.Deps, wallet progressiondb.Wallet) (*Module, error) {
	logger := deps.Obs.Logger
	tracer := deps.Obs.Tracer
	cfg := deps.Config

	logger.InfoContext(ctx, "lottery.NewLotteryModule initializing")

	rules := lotterydomain.Rules{TicketPrice: cfg.Game.TicketPrice, MaxTickets: cfg.Game.MaxTickets}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	schedule, err := queue.ParseCron(cfg.Game.LotteryDrawCron, deps.Location)
	if err != nil {
		return nil, err
	}

	rng, err := random.NewFromCrypto()
	if err != nil {
		return nil, err
	}

	// 1. Initialize Repository
	repo := lotterydb.NewRepository(deps.DB)

	// 2. Initialize Service
	service := lotteryservice.NewLotteryService(repo, wallet, rng, rules, schedule, logger, deps.Obs.Metrics, tracer, deps.DB, deps.Clock)

	// 3. Initialize Handlers
	handlers := lotteryhandlers.NewLotteryHandlers(service, deps.Messenger, cfg.Discord.LotteryChannelID, deps.Location, logger, tracer)

	// 4. Initialize Router
	router := lotteryrouter.NewLotteryRouter(logger, deps.HandlerDeps(), deps.Commands, rules)
	if err := router.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure lottery router: %w", err)
	}

	// 5. Register jobs
	river.AddWorker(deps.Queue.Workers(), lotteryjobs.NewDrawWorker(service, deps.Publisher, logger))
	deps.Queue.AddPeriodicJob(queue.OnSchedule(schedule, lotteryjobs.DrawArgs{Reason: lotteryjobs.ReasonWeekly}))

	return &Module{
		LotteryService: service,
		deps:           deps,
	}, nil
}

// Run starts the lottery module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.deps.Obs.Logger
	logger.InfoContext(ctx, "Starting lottery module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Lottery module goroutine stopped")
}

// Close shuts down the lottery module.
func (m *Module) Close() error {
	m.deps.Obs.Logger.Info("Stopping lottery module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
