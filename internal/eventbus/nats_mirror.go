package eventbus

import (
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats.go"
)

// natsPublisher is the part of *nats.Conn the mirror uses.
type natsPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSMirror forwards every in-process event to NATS under the same subject so
// external dashboards and bots can follow the economy.
type NATSMirror struct {
	conn   *nats.Conn
	pub    natsPublisher
	logger *slog.Logger
}

// NewNATSMirror connects to url.
func NewNATSMirror(url string, logger *slog.Logger) (*NATSMirror, error) {
	nc, err := nats.Connect(url,
		nats.Name("malta-bot"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", attr.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", attr.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSMirror{conn: nc, pub: nc, logger: logger}, nil
}

// Register adds one forwarding consumer per topic.
func (m *NATSMirror) Register(router *message.Router, subscriber message.Subscriber, topics []string) {
	for _, topic := range topics {
		router.AddNoPublisherHandler("nats_mirror."+topic, topic, subscriber, m.forward(topic))
	}
}

func (m *NATSMirror) forward(subject string) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		out := nats.NewMsg(subject)
		out.Data = msg.Payload
		out.Header.Set(nats.MsgIdHdr, msg.UUID)
		if id := msg.Metadata.Get(correlationMetadataKey); id != "" {
			out.Header.Set("Correlation-Id", id)
		}
		if err := m.pub.PublishMsg(out); err != nil {
			m.logger.Warn("Failed to mirror event to NATS",
				attr.String("subject", subject),
				attr.Error(err),
			)
			return err
		}
		return nil
	}
}

// Close drains the connection.
func (m *NATSMirror) Close() error {
	if m.conn == nil {
		return nil
	}
	return m.conn.Drain()
}
