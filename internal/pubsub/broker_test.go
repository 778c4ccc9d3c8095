package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func recv[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "channel closed")
		return event
	case <-time.After(time.Second):
		require.Fail(t, "timeout waiting for event")
		return Event[T]{}
	}
}

func TestBroker_DeliversToEverySubscriber(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	ctx := context.Background()
	subs := []<-chan Event[int]{broker.Subscribe(ctx), broker.Subscribe(ctx)}
	require.Equal(t, 2, broker.SubscriberCount())

	broker.Publish(CreatedEvent, 7)

	for _, ch := range subs {
		event := recv(t, ch)
		require.Equal(t, 7, event.Payload)
		require.Equal(t, CreatedEvent, event.Type)
		require.False(t, event.Timestamp.IsZero())
	}
}

func TestBroker_WithClockStampsEvents(t *testing.T) {
	stamp := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	broker := NewBroker[string](WithClock(func() time.Time { return stamp }))
	defer broker.Close()

	ch := broker.Subscribe(context.Background())
	broker.Publish(EventType("session.tick"), "59")

	event := recv(t, ch)
	require.Equal(t, stamp, event.Timestamp)
	require.Equal(t, EventType("session.tick"), event.Type)
}

func TestBroker_UnsubscribesOnContextCancel(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)

	cancel()
	require.Eventually(t, func() bool { return broker.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)

	_, ok := <-ch
	require.False(t, ok)
}

func TestBroker_PublishNeverBlocks(t *testing.T) {
	broker := NewBroker[int](WithBuffer(1))
	defer broker.Close()

	ch := broker.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		for i := range 10 {
			broker.Publish(UpdatedEvent, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "Publish blocked")
	}

	require.Equal(t, 0, recv(t, ch).Payload, "only the first event fit the buffer")
}

func TestBroker_CloseIsIdempotentAndFinal(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	broker := NewBroker[string]()
	ch := broker.Subscribe(context.Background())

	broker.Close()
	broker.Close()

	_, ok := <-ch
	require.False(t, ok)
	require.Zero(t, broker.SubscriberCount())

	late := broker.Subscribe(context.Background())
	_, ok = <-late
	require.False(t, ok, "subscribing after close yields a closed channel")

	require.NotPanics(t, func() { broker.Publish(DeletedEvent, "late") })
}
