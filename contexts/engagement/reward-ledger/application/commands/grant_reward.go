package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "boostfeed/contexts/engagement/reward-ledger/application"
	"boostfeed/contexts/engagement/reward-ledger/domain/entities"
	domainerrors "boostfeed/contexts/engagement/reward-ledger/domain/errors"
	"boostfeed/contexts/engagement/reward-ledger/domain/services"
	"boostfeed/contexts/engagement/reward-ledger/ports"
	"boostfeed/internal/shared/events"
)

type GrantWatchRewardInput struct {
	UserID  string
	VideoID string
}

type GrantWatchRewardResult struct {
	XPEarned int
	Message  string
	// Granted reports whether this call produced an effective grant (the
	// grant row was written), as opposed to a within-window no-op.
	Granted bool
}

// GrantWatchRewardUseCase converts one watch-completion into at most one
// ledger credit. The whole sequence runs inside InViewerTx so concurrent
// requests for the same viewer observe serialized execution: throttle ->
// eligibility -> per-video window -> trailing-window tier -> upsert ->
// reputation credit -> outbox append.
type GrantWatchRewardUseCase struct {
	Ledger ports.Ledger
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (u GrantWatchRewardUseCase) Execute(ctx context.Context, input GrantWatchRewardInput) (GrantWatchRewardResult, error) {
	userID := strings.TrimSpace(input.UserID)
	videoID := strings.TrimSpace(input.VideoID)
	if userID == "" || videoID == "" {
		return GrantWatchRewardResult{}, domainerrors.ErrInvalidGrantInput
	}

	now := u.now()
	var result GrantWatchRewardResult

	err := u.Ledger.InViewerTx(ctx, userID, func(tx ports.LedgerTx) error {
		lastAt, hasLast, err := tx.LastGrantAt(ctx, userID)
		if err != nil {
			return err
		}
		if hasLast && now.Sub(lastAt) < services.MinGrantInterval {
			return domainerrors.ErrRateLimited
		}

		video, found, err := tx.Video(ctx, videoID)
		if err != nil {
			return err
		}
		if !found {
			return domainerrors.ErrVideoNotFound
		}
		if !video.IsFeatured || video.Visibility != "public" {
			return domainerrors.ErrVideoNotRewardable
		}
		if video.OwnerID == userID {
			return domainerrors.ErrSelfRewardForbidden
		}

		existing, hasGrant, err := tx.Grant(ctx, userID, videoID)
		if err != nil {
			return err
		}
		if hasGrant && now.Before(existing.RenewableAt(services.EligibilityWindow)) {
			result = GrantWatchRewardResult{
				XPEarned: 0,
				Message:  services.AlreadyGrantedReply,
			}
			return nil
		}

		// Count before granting: the tier decision never sees the grant
		// being made.
		windowCount, err := tx.CountGrantsSince(ctx, userID, now.Add(-services.EligibilityWindow))
		if err != nil {
			return err
		}
		xp, message := services.XPForWindowCount(windowCount)

		grant := existing
		if !hasGrant {
			grantID, err := u.IDGen.NewID(ctx)
			if err != nil {
				return err
			}
			grant = entities.RewardGrant{
				GrantID:   grantID,
				UserID:    userID,
				VideoID:   videoID,
				CreatedAt: now,
			}
		}
		grant.XPEarned = xp
		grant.UpdatedAt = now

		if err := tx.UpsertGrant(ctx, grant); err != nil {
			return err
		}
		if err := tx.AddBoostPoints(ctx, userID, xp); err != nil {
			return err
		}
		if err := u.appendGrantEvent(ctx, tx, grant, now); err != nil {
			return err
		}

		if message == "" {
			message = fmt.Sprintf("You've earned %d XP for watching this featured video", xp)
		}
		result = GrantWatchRewardResult{
			XPEarned: xp,
			Message:  message,
			Granted:  true,
		}
		return nil
	})
	if err != nil {
		return GrantWatchRewardResult{}, err
	}

	application.ResolveLogger(u.Logger).Info("watch reward processed",
		"event", "reward_grant_processed",
		"module", "engagement/reward-ledger",
		"layer", "application",
		"user_id", userID,
		"video_id", videoID,
		"xp_earned", result.XPEarned,
		"granted", result.Granted,
	)
	return result, nil
}

func (u GrantWatchRewardUseCase) appendGrantEvent(ctx context.Context, tx ports.LedgerTx, grant entities.RewardGrant, now time.Time) error {
	eventID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(events.Envelope{
		EventID:        eventID,
		EventType:      "reward.xp_granted",
		SourceService:  "boostfeed",
		OccurredAtUTC:  now,
		EntityType:     "reward_grant",
		EntityID:       grant.GrantID,
		PayloadVersion: 1,
		Payload: map[string]any{
			"user_id":   grant.UserID,
			"video_id":  grant.VideoID,
			"xp_earned": grant.XPEarned,
		},
	})
	if err != nil {
		return err
	}
	return tx.AppendOutbox(ctx, ports.OutboxMessage{
		OutboxID:  eventID,
		EventType: "reward.xp_granted",
		Payload:   payload,
		Status:    "pending",
		CreatedAt: now,
	})
}

func (u GrantWatchRewardUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
