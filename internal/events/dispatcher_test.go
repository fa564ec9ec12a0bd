package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/identity-gateway/internal/events"
)

func TestDispatcherFanOut(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	var seen []events.EventType
	dispatcher.Subscribe(events.EventLoginSucceeded, func(_ context.Context, e events.Event) error {
		seen = append(seen, e.Type)
		return nil
	})
	dispatcher.Subscribe(events.EventLoginSucceeded, func(_ context.Context, e events.Event) error {
		seen = append(seen, e.Type)
		return errors.New("handler failure must not stop fan-out")
	})
	dispatcher.Subscribe(events.EventLogout, func(_ context.Context, e events.Event) error {
		seen = append(seen, e.Type)
		return nil
	})

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-1",
		Type:      events.EventLoginSucceeded,
		Email:     "ada@example.com",
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, []events.EventType{events.EventLoginSucceeded, events.EventLoginSucceeded}, seen)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventOTPRequested}))
}
