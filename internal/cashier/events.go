package cashier

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventsChannel is the redis channel change notifications go out on.
const EventsChannel = "caixa.events"

// EventType enumerates outbound change notifications.
type EventType string

const (
	EventSessionOpened       EventType = "session.opened"
	EventTransactionRecorded EventType = "transaction.recorded"
	EventSessionClosed       EventType = "session.closed"
)

// Event is the envelope published for real-time UI refresh. Transport
// is an external concern; consumers re-read the authoritative state.
type Event struct {
	Type       EventType `json:"type"`
	SessionID  uuid.UUID `json:"session_id"`
	EmployeeID uuid.UUID `json:"employee_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher pushes change notifications. Implementations must be
// best-effort: a failed publish never fails the originating operation.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

// Notifier publishes events over redis pub/sub. A nil notifier or nil
// client is a no-op, so wiring redis stays optional.
type Notifier struct {
	client *redis.Client
	logger *slog.Logger
}

// NewNotifier builds a redis-backed publisher.
func NewNotifier(client *redis.Client, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{client: client, logger: logger}
}

// Publish sends the event on the events channel, logging failures
// instead of propagating them.
func (n *Notifier) Publish(ctx context.Context, event Event) {
	if n == nil || n.client == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("marshal event", slog.Any("error", err))
		return
	}
	if err := n.client.Publish(ctx, EventsChannel, payload).Err(); err != nil {
		n.logger.Warn("publish event",
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
	}
}
