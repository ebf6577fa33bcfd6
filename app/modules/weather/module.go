package weather

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/malta-bot/app/modules"
	weatherservice "github.com/Black-And-White-Club/malta-bot/app/modules/weather/application"
	weatherdomain "github.com/Black-And-White-Club/malta-bot/app/modules/weather/domain"
	weatherhandlers "github.com/Black-And-White-Club/malta-bot/app/modules/weather/infrastructure/handlers"
	weatherjobs "github.com/Black-And-White-Club/malta-bot/app/modules/weather/infrastructure/jobs"
	weatherdb "github.com/Black-And-White-Club/malta-bot/app/modules/weather/infrastructure/repositories"
	weatherrouter "github.com/Black-And-White-Club/malta-bot/app/modules/weather/infrastructure/router"
	"github.com/Black-And-White-Club/malta-bot/config"
	"github.com/Black-And-White-Club/malta-bot/internal/queue"
	"github.com/Black-And-White-Club/malta-bot/internal/random"
	"github.com/riverqueue/river"
)

// Module represents the weather module.
type Module struct {
	WeatherService weatherservice.Service
	cancelFunc     context.CancelFunc
	deps           modules.Deps
}

// Regions converts the configured regions, falling back to the defaults.
func Regions(cfg []config.RegionConfig) ([]weatherdomain.Region, error) {
	if len(cfg) == 0 {
		return weatherdomain.DefaultRegions, nil
	}
	out := make([]weatherdomain.Region, 0, len(cfg))
	for _, rc := range cfg {
		climate, err := weatherdomain.ParseClimate(rc.Climate)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", rc.Name, err)
		}
		out = append(out, weatherdomain.Region{Name: rc.Name, Climate: climate})
	}
	return out, nil
}

// NewWeatherModule creates and initializes a new weather module.
func NewWeatherModule(ctx context.Context, deps modules.Deps) (*Module, error) {
	logger := deps.Obs.Logger
	tracer := deps.Obs.Tracer
	cfg := deps.Config

	logger.InfoContext(ctx, "weather.NewWeatherModule initializing")

	regions, err := Regions(cfg.Weather.Regions)
	if err != nil {
		return nil, err
	}

	rng, err := random.NewFromCrypto()
	if err != nil {
		return nil, err
	}

	// 1. Initialize Repository
	repo := weatherdb.NewRepository(deps.DB)

	// 2. Initialize Service
	service := weatherservice.NewWeatherService(
		repo,
		weatherdomain.NewGenerator(rng),
		weatherdomain.NewConverter(cfg.Weather.RealEpoch, cfg.Weather.TimeScale),
		regions,
		logger,
		deps.Obs.Metrics,
		tracer,
		deps.DB,
		deps.Clock,
	)

	// 3. Initialize Handlers
	handlers := weatherhandlers.NewWeatherHandlers(service, deps.Messenger, cfg.Discord.WeatherChannelID, cfg.Weather.HistoryLen, logger, tracer)

	// 4. Initialize Router
	router := weatherrouter.NewWeatherRouter(logger, deps.HandlerDeps(), deps.Commands, regions)
	if err := router.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure weather router: %w", err)
	}

	// 5. Register jobs
	river.AddWorker(deps.Queue.Workers(), weatherjobs.NewTickWorker(service, deps.Publisher, logger))
	deps.Queue.AddPeriodicJob(queue.Every(cfg.Weather.Interval, weatherjobs.TickArgs{}, true))

	return &Module{
		WeatherService: service,
		deps:           deps,
	}, nil
}

// Run starts the weather module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.deps.Obs.Logger
	logger.InfoContext(ctx, "Starting weather module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Weather module goroutine stopped")
}

// Close shuts down the weather module.
func (m *Module) Close() error {
	m.deps.Obs.Logger.Info("Stopping weather module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
