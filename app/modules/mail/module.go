package mail

import (
	"context"
	"sync"

	"github.com/Black-And-White-Club/malta-bot/app/modules"
	mailservice "github.com/Black-And-White-Club/malta-bot/app/modules/mail/application"
	mailhandlers "github.com/Black-And-White-Club/malta-bot/app/modules/mail/infrastructure/handlers"
	mailjobs "github.com/Black-And-White-Club/malta-bot/app/modules/mail/infrastructure/jobs"
	"github.com/Black-And-White-Club/malta-bot/app/modules/mail/infrastructure/mailbox"
	maildb "github.com/Black-And-White-Club/malta-bot/app/modules/mail/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/malta-bot/internal/queue"
	"github.com/riverqueue/river"
)

// Module represents the mail module. MailService is nil when polling is disabled.
type Module struct {
	MailService mailservice.Service
	cancelFunc  context.CancelFunc
	deps        modules.Deps
}

// NewMailModule creates the mail module and schedules polling when an IMAP host is set.
func NewMailModule(ctx context.Context, deps modules.Deps) (*Module, error) {
	logger := deps.Obs.Logger
	cfg := deps.Config

	logger.InfoContext(ctx, "mail.NewMailModule initializing")

	if !cfg.Mail.Enabled() {
		logger.InfoContext(ctx, "Mail polling disabled: no IMAP host configured")
		return &Module{deps: deps}, nil
	}
	if cfg.Discord.ApplicationsChannelID == "" {
		logger.WarnContext(ctx, "Mail polling enabled without an applications channel")
	}

	// 1. Initialize Repository
	repo := maildb.NewRepository(deps.DB)

	// 2. Initialize Mailbox
	opener := mailbox.NewOpener(mailbox.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		Mailbox:  cfg.Mail.Mailbox,
	}, logger)

	// 3. Initialize Service
	forwarder := mailhandlers.NewApplicationForwarder(deps.Messenger, cfg.Discord.ApplicationsChannelID, logger)
	service := mailservice.NewMailService(
		opener,
		repo,
		forwarder,
		cfg.Mail.SubjectFilter,
		logger,
		deps.Obs.Metrics,
		deps.Obs.Tracer,
		deps.DB,
	)

	// 4. Register jobs
	river.AddWorker(deps.Queue.Workers(), mailjobs.NewPollWorker(service, logger))
	deps.Queue.AddPeriodicJob(queue.Every(cfg.Mail.PollInterval, mailjobs.PollArgs{}, true))

	logger.InfoContext(ctx, "Mail polling enabled",
		attr.String("host", cfg.Mail.Host),
		attr.String("mailbox", cfg.Mail.Mailbox),
		attr.Duration("interval", cfg.Mail.PollInterval),
	)

	return &Module{
		MailService: service,
		deps:        deps,
	}, nil
}

// Run starts the mail module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.deps.Obs.Logger
	logger.InfoContext(ctx, "Starting mail module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Mail module goroutine stopped")
}

// Close shuts down the mail module.
func (m *Module) Close() error {
	m.deps.Obs.Logger.Info("Stopping mail module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
