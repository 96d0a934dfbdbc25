package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "boostfeed/contexts/engagement/reward-ledger/application"
	"boostfeed/contexts/engagement/reward-ledger/ports"
	"boostfeed/internal/shared/events"
)

// OutboxRelay drains pending reward events and publishes them to the broker.
// Messages are marked sent only after a successful publish, so a crashed
// cycle re-delivers instead of losing events.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	topic := r.Topic
	if topic == "" {
		topic = "reward.xp_granted"
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "reward_outbox_list_failed",
			"module", "engagement/reward-ledger",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, message := range pending {
		var envelope events.Envelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "reward_outbox_decode_failed",
				"module", "engagement/reward-ledger",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}

		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "reward_outbox_publish_failed",
				"module", "engagement/reward-ledger",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_id", envelope.EventID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxSent(ctx, message.OutboxID, now); err != nil {
			logger.Error("outbox mark sent failed",
				"event", "reward_outbox_mark_sent_failed",
				"module", "engagement/reward-ledger",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	if len(pending) > 0 {
		logger.Info("outbox relay cycle completed",
			"event", "reward_outbox_relay_completed",
			"module", "engagement/reward-ledger",
			"layer", "worker",
			"sent_count", len(pending),
		)
	}
	return nil
}
