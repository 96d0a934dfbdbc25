package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"boostfeed/contexts/engagement/reward-ledger/adapters/memory"
	"boostfeed/contexts/engagement/reward-ledger/ports"
	"boostfeed/internal/shared/events"
)

type capturePublisher struct {
	topics []string
	events []events.Envelope
	fail   bool
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event events.Envelope) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func seedOutbox(t *testing.T, store *memory.Store, eventID string, at time.Time) {
	t.Helper()
	payload, err := json.Marshal(events.Envelope{
		EventID:   eventID,
		EventType: "reward.xp_granted",
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	err = store.InViewerTx(context.Background(), "viewer-1", func(tx ports.LedgerTx) error {
		return tx.AppendOutbox(context.Background(), ports.OutboxMessage{
			OutboxID:  eventID,
			EventType: "reward.xp_granted",
			Payload:   payload,
			Status:    "pending",
			CreatedAt: at,
		})
	})
	if err != nil {
		t.Fatalf("seed outbox: %v", err)
	}
}

func TestOutboxRelayPublishesAndMarksSent(t *testing.T) {
	store := memory.NewStore(nil)
	store.SetViewer("viewer-1", 0)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedOutbox(t, store, "event-1", base)
	seedOutbox(t, store, "event-2", base.Add(time.Minute))

	publisher := &capturePublisher{}
	relay := OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay failed: %v", err)
	}

	if len(publisher.events) != 2 || publisher.events[0].EventID != "event-1" {
		t.Fatalf("expected oldest-first publishes, got %+v", publisher.events)
	}
	for _, topic := range publisher.topics {
		if topic != "reward.xp_granted" {
			t.Fatalf("unexpected topic %q", topic)
		}
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty outbox after relay, got %d pending", len(pending))
	}
}

func TestOutboxRelayKeepsMessagesOnPublishFailure(t *testing.T) {
	store := memory.NewStore(nil)
	store.SetViewer("viewer-1", 0)
	seedOutbox(t, store, "event-1", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	relay := OutboxRelay{
		Outbox:    store,
		Publisher: &capturePublisher{fail: true},
		Clock:     store,
	}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatal("expected publish failure to surface")
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("failed publish must keep the message pending, got %d", len(pending))
	}
}
