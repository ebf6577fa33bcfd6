package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
)

// QueueGame is the dedicated queue for economy jobs; the default queue carries the rest.
const QueueGame = "game"

// ErrNotStarted is returned when jobs are inserted before Start.
var ErrNotStarted = errors.New("queue service not started")

// Scheduler is what modules use to enqueue one-off jobs.
type Scheduler interface {
	ScheduleAt(ctx context.Context, args river.JobArgs, at time.Time) (int64, error)
}

// QueueService defines the contract for job scheduling operations.
type QueueService interface {
	Scheduler
	// Workers exposes the registry modules add their workers to before Start.
	Workers() *river.Workers
	// AddPeriodicJob registers a periodic job before Start.
	AddPeriodicJob(job *river.PeriodicJob)
	// Migrate applies River's own schema migrations.
	Migrate(ctx context.Context) error
	// PendingJobs lists available/scheduled jobs of the given kinds.
	PendingJobs(ctx context.Context, kinds ...string) ([]JobInfo, error)
	// HealthCheck verifies the queue service is healthy.
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service runs background and scheduled jobs on River.
type Service struct {
	pool     *pgxpool.Pool
	workers  *river.Workers
	periodic []*river.PeriodicJob
	client   *river.Client[pgx.Tx]
	db       *bun.DB
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
	mu       sync.Mutex
}

// NewService opens the pgx pool River needs (River requires pgx, not database/sql).
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, m metrics.OperationMetrics) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	m.RecordOperationAttempt(ctx, "initialize_service", "river")

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		ctxLogger.Error("Failed to parse DSN for River", attr.Error(err))
		m.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		ctxLogger.Error("Failed to create pgx pool for River", attr.Error(err))
		m.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", attr.Error(err))
		m.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	m.RecordOperationSuccess(ctx, "initialize_service", "river")
	m.RecordOperationDuration(ctx, "initialize_service", "river", time.Since(start))

	return &Service{
		pool:    pool,
		workers: river.NewWorkers(),
		db:      bunDB,
		logger:  ctxLogger,
		metrics: m,
	}, nil
}

func (s *Service) Workers() *river.Workers { return s.workers }

func (s *Service) AddPeriodicJob(job *river.PeriodicJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.periodic = append(s.periodic, job)
}

// Migrate applies River's schema so river_job exists before Start.
func (s *Service) Migrate(ctx context.Context) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(s.pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return fmt.Errorf("failed to migrate River schema: %w", err)
	}
	for _, v := range res.Versions {
		s.logger.InfoContext(ctx, "Applied River migration", attr.Int("version", v.Version))
	}
	return nil
}

// Start builds the River client from the registered workers and periodic jobs.
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", "river")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		client, err := river.NewClient(riverpgxv5.New(s.pool), &river.Config{
			Queues: map[string]river.QueueConfig{
				river.QueueDefault: {MaxWorkers: 10},
				QueueGame:          {MaxWorkers: 5},
			},
			Workers:      s.workers,
			PeriodicJobs: s.periodic,
			Logger:       s.logger,
		})
		if err != nil {
			s.logger.Error("Failed to create River client", attr.Error(err))
			s.metrics.RecordOperationFailure(ctx, "start_service", "river")
			return fmt.Errorf("failed to create River client: %w", err)
		}
		s.client = client
	}

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_service", "river")
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_service", "river")
	s.metrics.RecordOperationDuration(ctx, "start_service", "river", time.Since(start))

	s.logger.Info("Queue service started", attr.Int("periodic_jobs", len(s.periodic)))
	return nil
}

// Stop stops the client and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "stop_service", "river")

	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if client != nil {
		if err := client.Stop(ctx); err != nil {
			s.logger.Error("Failed to stop River client", attr.Error(err))
			s.metrics.RecordOperationFailure(ctx, "stop_service", "river")
			return fmt.Errorf("failed to stop River client: %w", err)
		}
	}
	s.pool.Close()

	s.metrics.RecordOperationSuccess(ctx, "stop_service", "river")
	s.metrics.RecordOperationDuration(ctx, "stop_service", "river", time.Since(start))
	s.logger.Info("Queue service stopped")
	return nil
}

// ScheduleAt inserts args to run at the given time on the game queue.
func (s *Service) ScheduleAt(ctx context.Context, args river.JobArgs, at time.Time) (int64, error) {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "schedule_job", "river")

	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		s.metrics.RecordOperationFailure(ctx, "schedule_job", "river")
		return 0, ErrNotStarted
	}

	res, err := client.Insert(ctx, args, &river.InsertOpts{
		Queue:       QueueGame,
		ScheduledAt: at,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to schedule job",
			attr.String("kind", args.Kind()),
			attr.Time("scheduled_at", at),
			attr.Error(err),
		)
		s.metrics.RecordOperationFailure(ctx, "schedule_job", "river")
		return 0, fmt.Errorf("failed to schedule %s job: %w", args.Kind(), err)
	}

	s.metrics.RecordOperationSuccess(ctx, "schedule_job", "river")
	s.metrics.RecordOperationDuration(ctx, "schedule_job", "river", time.Since(start))

	s.logger.InfoContext(ctx, "Job scheduled",
		attr.String("kind", args.Kind()),
		attr.Int64("job_id", res.Job.ID),
		attr.Time("scheduled_at", at),
	)
	return res.Job.ID, nil
}

// PendingJobs reads the river_job table directly for the admin and API views.
func (s *Service) PendingJobs(ctx context.Context, kinds ...string) ([]JobInfo, error) {
	var rows []riverJobRow
	q := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "scheduled_at", "created_at", "attempt", "max_attempts").
		Where("state IN (?, ?)", "available", "scheduled").
		Order("scheduled_at ASC NULLS LAST", "created_at ASC")
	if len(kinds) > 0 {
		q = q.Where("kind IN (?)", bun.In(kinds))
	}
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to query pending jobs: %w", err)
	}

	out := make([]JobInfo, len(rows))
	for i, r := range rows {
		out[i] = r.toInfo()
	}
	return out, nil
}

// HealthCheck pings the pool River uses.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("river pool unhealthy: %w", err)
	}
	return nil
}
