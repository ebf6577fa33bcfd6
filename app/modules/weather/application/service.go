package weatherservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	weatherdomain "github.com/Black-And-White-Club/malta-bot/app/modules/weather/domain"
	weatherdb "github.com/Black-And-White-Club/malta-bot/app/modules/weather/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/clock"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/malta-bot/internal/operation"
	"github.com/Black-And-White-Club/malta-bot/internal/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// ErrNoReading is returned for a region that has not been ticked yet.
var ErrNoReading = errors.New("no weather recorded yet")

// DefaultHistoryLen is the number of logs charted by History.
const DefaultHistoryLen = 48

// WeatherService implements the Service interface.
type WeatherService struct {
	repo      weatherdb.Repository
	generator *weatherdomain.Generator
	converter weatherdomain.Converter
	regions   []weatherdomain.Region
	logger    *slog.Logger
	metrics   metrics.WeatherMetrics
	tracer    trace.Tracer
	db        *bun.DB
	clock     clock.Clock
}

var _ Service = (*WeatherService)(nil)

// NewWeatherService creates a new WeatherService.
func NewWeatherService(
	repo weatherdb.Repository,
	generator *weatherdomain.Generator,
	converter weatherdomain.Converter,
	regions []weatherdomain.Region,
	logger *slog.Logger,
	metrics metrics.WeatherMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	clk clock.Clock,
) *WeatherService {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if len(regions) == 0 {
		regions = weatherdomain.DefaultRegions
	}
	return &WeatherService{
		repo:      repo,
		generator: generator,
		converter: converter,
		regions:   regions,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		clock:     clk,
	}
}

func (s *WeatherService) telemetry() operation.Telemetry {
	return operation.Telemetry{
		Service: "weather",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}
}

func (s *WeatherService) MaltaTime() weatherdomain.MaltaTime {
	return s.converter.At(s.clock.NowUTC())
}

func (s *WeatherService) Regions() []weatherdomain.Region {
	return s.regions
}

// Tick writes every region in one transaction.
func (s *WeatherService) Tick(ctx context.Context) (Bulletin, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "Tick", "all", func(ctx context.Context) (results.OperationResult[Bulletin, error], error) {
		return operation.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[Bulletin, error], error) {
			return s.tickLogic(ctx, db)
		})
	}))
}

func (s *WeatherService) tickLogic(ctx context.Context, db bun.IDB) (results.OperationResult[Bulletin, error], error) {
	now := s.clock.NowUTC()
	mt := s.converter.At(now)

	rows, err := s.repo.GetStates(ctx, db)
	if err != nil {
		return results.OperationResult[Bulletin, error]{}, err
	}
	previous := make(map[string]weatherdomain.State, len(rows))
	for _, r := range rows {
		previous[r.Region] = toDomain(r)
	}

	bulletin := Bulletin{Time: mt, At: now, States: make([]weatherdomain.State, 0, len(s.regions))}
	for _, region := range s.regions {
		var prev *weatherdomain.State
		if p, ok := previous[region.Name]; ok {
			prev = &p
		}
		next := s.generator.Next(region, prev, mt)

		if err := s.repo.UpsertState(ctx, db, &weatherdb.State{
			Region:       next.Region,
			Condition:    string(next.Condition),
			Temperature:  next.Temperature,
			CloudCover:   next.CloudCover,
			WindSpeed:    next.WindSpeed,
			Narrative:    next.Narrative,
			MaltaMinutes: mt.Minutes,
			UpdatedAt:    now,
		}); err != nil {
			return results.OperationResult[Bulletin, error]{}, err
		}
		if err := s.repo.AppendLog(ctx, db, &weatherdb.Log{
			Region:       next.Region,
			Condition:    string(next.Condition),
			Temperature:  next.Temperature,
			CloudCover:   next.CloudCover,
			WindSpeed:    next.WindSpeed,
			MaltaMinutes: mt.Minutes,
			CreatedAt:    now,
		}); err != nil {
			return results.OperationResult[Bulletin, error]{}, err
		}

		s.metrics.RecordWeatherTick(ctx, next.Region, string(next.Condition), next.Temperature)
		bulletin.States = append(bulletin.States, next)
	}

	if err := s.repo.AppendTimeLog(ctx, db, &weatherdb.TimeLog{
		MaltaMinutes: mt.Minutes,
		Display:      mt.String(),
		Season:       string(mt.Season()),
		RealTime:     now,
	}); err != nil {
		return results.OperationResult[Bulletin, error]{}, err
	}

	s.logger.InfoContext(ctx, "Weather ticked",
		attr.ExtractCorrelationID(ctx),
		attr.String("malta_time", mt.String()),
		attr.String("season", string(mt.Season())),
		attr.Int("regions", len(bulletin.States)),
	)

	return results.SuccessResult[Bulletin, error](bulletin), nil
}

// Current resolves the region case-insensitively.
func (s *WeatherService) Current(ctx context.Context, name string) (Report, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "Current", name, func(ctx context.Context) (results.OperationResult[Report, error], error) {
		region, err := weatherdomain.FindRegion(s.regions, name)
		if err != nil {
			return results.FailureResult[Report, error](err), nil
		}

		row, err := s.repo.GetState(ctx, nil, region.Name)
		if err != nil {
			if errors.Is(err, weatherdb.ErrNotFound) {
				return results.FailureResult[Report, error](ErrNoReading), nil
			}
			return results.OperationResult[Report, error]{}, err
		}
		return results.SuccessResult[Report, error](s.toReport(*row)), nil
	}))
}

// All keeps the configured region order.
func (s *WeatherService) All(ctx context.Context) ([]Report, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "All", "all", func(ctx context.Context) (results.OperationResult[[]Report, error], error) {
		rows, err := s.repo.GetStates(ctx, nil)
		if err != nil {
			return results.OperationResult[[]Report, error]{}, err
		}
		byRegion := make(map[string]weatherdb.State, len(rows))
		for _, r := range rows {
			byRegion[r.Region] = r
		}

		out := make([]Report, 0, len(s.regions))
		for _, region := range s.regions {
			if r, ok := byRegion[region.Name]; ok {
				out = append(out, s.toReport(r))
			}
		}
		return results.SuccessResult[[]Report, error](out), nil
	}))
}

func (s *WeatherService) History(ctx context.Context, name string, limit int) ([]weatherdb.Log, error) {
	if limit <= 0 || limit > 500 {
		limit = DefaultHistoryLen
	}
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "History", name, func(ctx context.Context) (results.OperationResult[[]weatherdb.Log, error], error) {
		region, err := weatherdomain.FindRegion(s.regions, name)
		if err != nil {
			return results.FailureResult[[]weatherdb.Log, error](err), nil
		}
		logs, err := s.repo.RecentLogs(ctx, nil, region.Name, limit)
		if err != nil {
			return results.OperationResult[[]weatherdb.Log, error]{}, fmt.Errorf("failed to load %s history: %w", region.Name, err)
		}
		return results.SuccessResult[[]weatherdb.Log, error](logs), nil
	}))
}

func (s *WeatherService) toReport(r weatherdb.State) Report {
	return Report{
		State:     toDomain(r),
		MaltaTime: weatherdomain.FromMinutes(r.MaltaMinutes),
		UpdatedAt: r.UpdatedAt,
	}
}

func toDomain(r weatherdb.State) weatherdomain.State {
	return weatherdomain.State{
		Region:      r.Region,
		Condition:   weatherdomain.Condition(r.Condition),
		Temperature: r.Temperature,
		CloudCover:  r.CloudCover,
		WindSpeed:   r.WindSpeed,
		Narrative:   r.Narrative,
	}
}
