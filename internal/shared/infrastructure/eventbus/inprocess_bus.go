package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// PublishedMessage is a message captured by the in-process bus.
type PublishedMessage struct {
	RoutingKey string
	Payload    []byte
}

// InProcessBus keeps published messages in memory. It backs the local mode,
// where no RabbitMQ is available, and doubles as a test spy.
type InProcessBus struct {
	logger *slog.Logger

	mu       sync.Mutex
	messages []PublishedMessage
}

// NewInProcessBus creates an in-process event bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{logger: logger}
}

// Publish records the message.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.messages = append(b.messages, PublishedMessage{RoutingKey: routingKey, Payload: payload})
	b.logger.Debug("event recorded in-process",
		"routing_key", routingKey,
		"size", len(payload),
	)
	return nil
}

// Messages returns a copy of everything published so far.
func (b *InProcessBus) Messages() []PublishedMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]PublishedMessage, len(b.messages))
	copy(out, b.messages)
	return out
}

// Close is a no-op.
func (b *InProcessBus) Close() error { return nil }
