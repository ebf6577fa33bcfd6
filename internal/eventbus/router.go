package eventbus

import (
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// NewRouter creates the watermill router used by module consumers. Failing
// handlers are retried a few times and then dropped, so a Discord outage cannot
// wedge the in-process bus with endless redeliveries.
func NewRouter(logger *slog.Logger) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: 10 * time.Second,
	}, WatermillLogger(logger))
	if err != nil {
		return nil, err
	}

	router.AddMiddleware(
		dropAfterRetries(logger),
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			Multiplier:      2,
			MaxInterval:     5 * time.Second,
			Logger:          WatermillLogger(logger),
		}.Middleware,
		middleware.Recoverer,
	)

	return router, nil
}

func dropAfterRetries(logger *slog.Logger) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			out, err := h(msg)
			if err != nil {
				logger.ErrorContext(msg.Context(), "Dropping event after retries",
					attr.String("message_id", msg.UUID),
					attr.String("handler", message.HandlerNameFromCtx(msg.Context())),
					attr.Error(err),
				)
				return nil, nil
			}
			return out, nil
		}
	}
}
