package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"boostfeed/contexts/engagement/reward-ledger/domain/entities"
	domainerrors "boostfeed/contexts/engagement/reward-ledger/domain/errors"
	"boostfeed/contexts/engagement/reward-ledger/ports"

	"github.com/google/uuid"
)

const defaultLockWait = 800 * time.Millisecond

// Store is the in-memory ledger. InViewerTx serializes per viewer through a
// one-slot lock channel with a bounded wait, and transaction writes are
// staged so a failing sequence leaves no partial state.
type Store struct {
	mu sync.RWMutex

	lockMu sync.Mutex
	locks  map[string]chan struct{}

	// LockWait bounds how long InViewerTx blocks on a contended viewer
	// before failing with ErrLedgerBusy. Zero means defaultLockWait.
	LockWait time.Duration

	viewers map[string]int64
	videos  map[string]ports.VideoProjection
	grants  map[string]entities.RewardGrant
	outbox  map[string]ports.OutboxMessage
}

func NewStore(seed []ports.VideoProjection) *Store {
	videos := make(map[string]ports.VideoProjection, len(seed))
	for _, video := range seed {
		videos[video.VideoID] = video
	}
	return &Store{
		locks:   make(map[string]chan struct{}),
		viewers: make(map[string]int64),
		videos:  videos,
		grants:  make(map[string]entities.RewardGrant),
		outbox:  make(map[string]ports.OutboxMessage),
	}
}

func grantKey(userID string, videoID string) string {
	return userID + "\x00" + videoID
}

func (s *Store) SetViewer(userID string, boostPoints int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewers[strings.TrimSpace(userID)] = boostPoints
}

func (s *Store) SetVideo(video ports.VideoProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos[strings.TrimSpace(video.VideoID)] = video
}

// SeedGrant installs a prior grant without going through the use case.
func (s *Store) SeedGrant(grant entities.RewardGrant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grantKey(grant.UserID, grant.VideoID)] = grant
}

func (s *Store) BoostPoints(userID string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewers[strings.TrimSpace(userID)]
}

func (s *Store) GrantFor(userID string, videoID string) (entities.RewardGrant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grant, ok := s.grants[grantKey(strings.TrimSpace(userID), strings.TrimSpace(videoID))]
	return grant, ok
}

func (s *Store) viewerLock(userID string) chan struct{} {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = make(chan struct{}, 1)
		s.locks[userID] = lock
	}
	return lock
}

func (s *Store) InViewerTx(ctx context.Context, userID string, fn func(tx ports.LedgerTx) error) error {
	userID = strings.TrimSpace(userID)
	lock := s.viewerLock(userID)

	wait := s.LockWait
	if wait <= 0 {
		wait = defaultLockWait
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case lock <- struct{}{}:
	case <-timer.C:
		return domainerrors.ErrLedgerBusy
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-lock }()

	s.mu.RLock()
	_, viewerExists := s.viewers[userID]
	s.mu.RUnlock()
	if !viewerExists {
		return domainerrors.ErrViewerNotFound
	}

	tx := &ledgerTx{store: s, userID: userID}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// ledgerTx stages all writes; commit applies them under the store lock so a
// failed sequence rolls back by simply being discarded.
type ledgerTx struct {
	store  *Store
	userID string

	pendingGrant  *entities.RewardGrant
	pendingBoost  int64
	pendingOutbox []ports.OutboxMessage
}

func (t *ledgerTx) Video(_ context.Context, videoID string) (ports.VideoProjection, bool, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	video, ok := t.store.videos[strings.TrimSpace(videoID)]
	return video, ok, nil
}

func (t *ledgerTx) LastGrantAt(_ context.Context, userID string) (time.Time, bool, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	var last time.Time
	found := false
	for _, grant := range t.store.grants {
		if grant.UserID != strings.TrimSpace(userID) {
			continue
		}
		if !found || grant.UpdatedAt.After(last) {
			last = grant.UpdatedAt
			found = true
		}
	}
	return last, found, nil
}

func (t *ledgerTx) CountGrantsSince(_ context.Context, userID string, since time.Time) (int, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	count := 0
	for _, grant := range t.store.grants {
		if grant.UserID == strings.TrimSpace(userID) && !grant.UpdatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (t *ledgerTx) Grant(_ context.Context, userID string, videoID string) (entities.RewardGrant, bool, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	grant, ok := t.store.grants[grantKey(strings.TrimSpace(userID), strings.TrimSpace(videoID))]
	return grant, ok, nil
}

func (t *ledgerTx) UpsertGrant(_ context.Context, grant entities.RewardGrant) error {
	staged := grant
	t.pendingGrant = &staged
	return nil
}

func (t *ledgerTx) AddBoostPoints(_ context.Context, _ string, delta int) error {
	t.pendingBoost += int64(delta)
	return nil
}

func (t *ledgerTx) AppendOutbox(_ context.Context, message ports.OutboxMessage) error {
	t.pendingOutbox = append(t.pendingOutbox, message)
	return nil
}

func (t *ledgerTx) commit() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if t.pendingGrant != nil {
		t.store.grants[grantKey(t.pendingGrant.UserID, t.pendingGrant.VideoID)] = *t.pendingGrant
	}
	if t.pendingBoost != 0 {
		t.store.viewers[t.userID] += t.pendingBoost
	}
	for _, message := range t.pendingOutbox {
		t.store.outbox[message.OutboxID] = message
	}
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []ports.OutboxMessage
	for _, message := range s.outbox {
		if message.Status == "pending" {
			pending = append(pending, message)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.outbox[outboxID]
	if !ok {
		return nil
	}
	message.Status = "published"
	s.outbox[outboxID] = message
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
