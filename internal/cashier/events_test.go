package cashier

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierPublishesEnvelopeOnEventsChannel(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := NewNotifier(client, logger)

	sub := client.Subscribe(context.Background(), EventsChannel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	event := Event{
		Type:       EventSessionClosed,
		SessionID:  uuid.New(),
		EmployeeID: uuid.New(),
		OccurredAt: time.Now().UTC().Truncate(time.Second),
	}
	notifier.Publish(context.Background(), event)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, event.Type, got.Type)
	assert.Equal(t, event.SessionID, got.SessionID)
	assert.Equal(t, event.EmployeeID, got.EmployeeID)
	assert.True(t, event.OccurredAt.Equal(got.OccurredAt))
}

func TestNotifierNilClientIsNoop(t *testing.T) {
	notifier := NewNotifier(nil, nil)
	notifier.Publish(context.Background(), Event{Type: EventSessionOpened})

	var nilNotifier *Notifier
	nilNotifier.Publish(context.Background(), Event{Type: EventSessionOpened})
}
