package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const correlationMetadataKey = "correlation_id"

// EventBus publishes and subscribes to domain events.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// Publisher is the narrow interface handlers and services depend on.
type Publisher interface {
	PublishResults(ctx context.Context, results []Result) error
}

// Result is an event produced by a handler, published after the handler returns.
type Result struct {
	Topic   string
	Payload any
}

// Bus is the in-process event bus backed by a watermill go channel.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

var (
	_ EventBus  = (*Bus)(nil)
	_ Publisher = (*Bus)(nil)
)

// New creates the bus. The watermill logger is the application logger.
func New(logger *slog.Logger) *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, watermill.NewSlogLogger(logger)),
		logger: logger,
	}
}

// WatermillLogger adapts logger for watermill components.
func WatermillLogger(logger *slog.Logger) watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logger)
}

func (b *Bus) Publish(topic string, messages ...*message.Message) error {
	return b.pubsub.Publish(topic, messages...)
}

func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// PublishResults marshals and publishes each result, stopping at the first error.
func (b *Bus) PublishResults(ctx context.Context, results []Result) error {
	for _, r := range results {
		msg, err := NewMessage(ctx, r.Payload)
		if err != nil {
			return err
		}
		if err := b.pubsub.Publish(r.Topic, msg); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", r.Topic, err)
		}
		b.logger.DebugContext(ctx, "Published event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", r.Topic),
			attr.String("message_id", msg.UUID),
		)
	}
	return nil
}

// NewMessage encodes payload as JSON and carries the correlation id as metadata.
func NewMessage(ctx context.Context, payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	msg := message.NewMessage(uuid.NewString(), data)
	if id := attr.CorrelationID(ctx); id != "" {
		msg.Metadata.Set(correlationMetadataKey, id)
	}
	return msg, nil
}

// Decode unmarshals a message payload into T.
func Decode[T any](msg *message.Message) (*T, error) {
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return &out, nil
}

// HandlerDeps bundles what AddHandler needs to register a consumer.
type HandlerDeps struct {
	Router     *message.Router
	Subscriber message.Subscriber
	Logger     *slog.Logger
	Tracer     trace.Tracer
}

// AddHandler registers a typed consumer for topic on the router.
func AddHandler[T any](deps HandlerDeps, handlerName, topic string, handler func(context.Context, *T) error) {
	deps.Router.AddNoPublisherHandler(
		handlerName,
		topic,
		deps.Subscriber,
		func(msg *message.Message) error {
			ctx := msg.Context()
			if id := msg.Metadata.Get(correlationMetadataKey); id != "" {
				ctx = attr.WithCorrelationID(ctx, id)
			} else {
				ctx = attr.WithCorrelationID(ctx, msg.UUID)
			}

			var span trace.Span
			if deps.Tracer != nil {
				ctx, span = deps.Tracer.Start(ctx, handlerName)
				defer span.End()
			}

			payload, err := Decode[T](msg)
			if err != nil {
				deps.Logger.ErrorContext(ctx, "Dropping undecodable event",
					attr.ExtractCorrelationID(ctx),
					attr.String("topic", topic),
					attr.Error(err),
				)
				return nil
			}

			if err := handler(ctx, payload); err != nil {
				deps.Logger.ErrorContext(ctx, "Event handler failed",
					attr.ExtractCorrelationID(ctx),
					attr.String("handler", handlerName),
					attr.Error(err),
				)
				if span != nil {
					span.RecordError(err)
				}
				return err
			}
			return nil
		},
	)
}
