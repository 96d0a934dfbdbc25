package ports

import (
	"context"
	"time"

	"boostfeed/contexts/engagement/reward-ledger/domain/entities"
	"boostfeed/internal/shared/events"
)

// VideoProjection is the slice of the content store the ledger needs to
// decide eligibility.
type VideoProjection struct {
	VideoID    string
	OwnerID    string
	IsFeatured bool
	Visibility string
}

// LedgerTx is the ledger view inside one serialized viewer transaction.
// All writes commit or roll back together with the surrounding InViewerTx.
type LedgerTx interface {
	Video(ctx context.Context, videoID string) (VideoProjection, bool, error)
	// LastGrantAt reports the viewer's most recent grant time across all
	// videos; the global throttle is measured from it.
	LastGrantAt(ctx context.Context, userID string) (time.Time, bool, error)
	CountGrantsSince(ctx context.Context, userID string, since time.Time) (int, error)
	Grant(ctx context.Context, userID string, videoID string) (entities.RewardGrant, bool, error)
	UpsertGrant(ctx context.Context, grant entities.RewardGrant) error
	AddBoostPoints(ctx context.Context, userID string, delta int) error
	AppendOutbox(ctx context.Context, message OutboxMessage) error
}

// Ledger serializes reward processing per viewer. InViewerTx acquires an
// exclusive lock on the viewer's reputation record for the duration of fn;
// two transactions for the same viewer never interleave, transactions for
// different viewers never contend. A lock that cannot be acquired within the
// adapter's bounded wait fails with ErrLedgerBusy.
type Ledger interface {
	InViewerTx(ctx context.Context, userID string, fn func(tx LedgerTx) error) error
}

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	Status    string // pending, published
	CreatedAt time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
