package messaging

import (
	"context"
	"testing"
	"time"

	"boostfeed/internal/shared/events"
)

func TestKafkaPublishReachesSubscriber(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new kafka failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan events.Envelope, 1)
	err = bus.Subscribe(ctx, "reward.xp_granted", "test-cg", func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	sent := events.Envelope{
		EventID:   "event-1",
		EventType: "reward.xp_granted",
	}
	if err := bus.Publish(ctx, "reward.xp_granted", sent); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case event := <-received:
		if event.EventID != sent.EventID {
			t.Fatalf("expected event %s, got %s", sent.EventID, event.EventID)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
	}
}

func TestKafkaPublishSkipsOtherTopics(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new kafka failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan events.Envelope, 1)
	err = bus.Subscribe(ctx, "reward.xp_granted", "test-cg", func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "another.topic", events.Envelope{EventID: "event-2"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case event := <-received:
		t.Fatalf("subscriber should not receive %s", event.EventID)
	case <-time.After(50 * time.Millisecond):
	}
}
