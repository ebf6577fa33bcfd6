package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"golang.org/x/sync/errgroup"
)

const queueStopTimeout = 15 * time.Second

// Run starts the event router, the job queue, the modules, the Discord session
// and the HTTP server, then blocks until ctx ends or one of them fails.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.EventRouter.Run(ctx); err != nil {
			return fmt.Errorf("event router stopped: %w", err)
		}
		return nil
	})
	select {
	case <-app.EventRouter.Running():
	case <-ctx.Done():
		return g.Wait()
	}

	if err := app.Queue.Start(ctx); err != nil {
		return err
	}
	runModules(ctx, &app.wg, app.Modules.all()...)

	if err := app.Bot.Open(ctx); err != nil {
		return err
	}

	g.Go(func() error {
		return app.HTTP.ListenAndServe(ctx)
	})

	logger.InfoContext(ctx, "Malta bot running")
	<-ctx.Done()
	logger.Info("Shutting down", attr.String("reason", context.Cause(ctx).Error()))

	stopCtx, cancel := context.WithTimeout(context.Background(), queueStopTimeout)
	defer cancel()
	if err := app.Queue.Stop(stopCtx); err != nil {
		logger.Error("Failed to stop queue", attr.Error(err))
	}

	err := g.Wait()
	app.wg.Wait()
	return err
}
