package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"boostfeed/contexts/engagement/reward-ledger/domain/entities"
	domainerrors "boostfeed/contexts/engagement/reward-ledger/domain/errors"
	"boostfeed/contexts/engagement/reward-ledger/ports"
)

func TestInViewerTxBoundedLockWait(t *testing.T) {
	store := NewStore(nil)
	store.LockWait = 30 * time.Millisecond
	store.SetViewer("viewer-1", 0)

	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- store.InViewerTx(context.Background(), "viewer-1", func(ports.LedgerTx) error {
			close(holding)
			<-release
			return nil
		})
	}()

	<-holding
	err := store.InViewerTx(context.Background(), "viewer-1", func(ports.LedgerTx) error {
		t.Error("contended transaction must not run")
		return nil
	})
	if !errors.Is(err, domainerrors.ErrLedgerBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("holder failed: %v", err)
	}
}

func TestInViewerTxDifferentViewersDoNotContend(t *testing.T) {
	store := NewStore(nil)
	store.LockWait = 30 * time.Millisecond
	store.SetViewer("viewer-1", 0)
	store.SetViewer("viewer-2", 0)

	holding := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = store.InViewerTx(context.Background(), "viewer-1", func(ports.LedgerTx) error {
			close(holding)
			<-release
			return nil
		})
	}()

	<-holding
	err := store.InViewerTx(context.Background(), "viewer-2", func(ports.LedgerTx) error {
		return nil
	})
	if err != nil {
		t.Fatalf("independent viewer blocked: %v", err)
	}
	close(release)
	wg.Wait()
}

func TestInViewerTxRollsBackStagedWrites(t *testing.T) {
	store := NewStore(nil)
	store.SetViewer("viewer-1", 5)

	boom := errors.New("boom")
	err := store.InViewerTx(context.Background(), "viewer-1", func(tx ports.LedgerTx) error {
		if err := tx.UpsertGrant(context.Background(), entities.RewardGrant{
			GrantID: "grant-1",
			UserID:  "viewer-1",
			VideoID: "video-1",
		}); err != nil {
			return err
		}
		if err := tx.AddBoostPoints(context.Background(), "viewer-1", 20); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
	if got := store.BoostPoints("viewer-1"); got != 5 {
		t.Fatalf("failed transaction must not credit, got %d", got)
	}
	if _, ok := store.GrantFor("viewer-1", "video-1"); ok {
		t.Fatalf("failed transaction must not persist the grant")
	}
}

func TestInViewerTxUnknownViewer(t *testing.T) {
	store := NewStore(nil)
	err := store.InViewerTx(context.Background(), "viewer-ghost", func(ports.LedgerTx) error {
		t.Error("transaction must not run for an unknown viewer")
		return nil
	})
	if !errors.Is(err, domainerrors.ErrViewerNotFound) {
		t.Fatalf("expected viewer not found, got %v", err)
	}
}

func TestOutboxLifecycle(t *testing.T) {
	store := NewStore(nil)
	store.SetViewer("viewer-1", 0)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err := store.InViewerTx(context.Background(), "viewer-1", func(tx ports.LedgerTx) error {
		for i, id := range []string{"outbox-b", "outbox-a"} {
			if err := tx.AppendOutbox(context.Background(), ports.OutboxMessage{
				OutboxID:  id,
				EventType: "reward.xp_granted",
				Status:    "pending",
				CreatedAt: base.Add(time.Duration(1-i) * time.Minute),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 2 || pending[0].OutboxID != "outbox-a" {
		t.Fatalf("expected oldest-first pending messages, got %v", pending)
	}

	if err := store.MarkOutboxSent(context.Background(), "outbox-a", base.Add(2*time.Minute)); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}
	pending, err = store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("second list failed: %v", err)
	}
	if len(pending) != 1 || pending[0].OutboxID != "outbox-b" {
		t.Fatalf("expected one remaining pending message, got %v", pending)
	}
}
