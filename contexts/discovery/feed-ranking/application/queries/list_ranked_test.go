package queries

import (
	"context"
	"fmt"
	"testing"

	"boostfeed/contexts/discovery/feed-ranking/adapters/memory"
	"boostfeed/contexts/discovery/feed-ranking/domain/entities"
	domainerrors "boostfeed/contexts/discovery/feed-ranking/domain/errors"
)

func seedRankedStore(t *testing.T, videoCount int) *memory.Store {
	t.Helper()
	store := memory.NewStore(nil)
	for i := 0; i < videoCount; i++ {
		videoID := fmt.Sprintf("video-%03d", i)
		ownerID := fmt.Sprintf("owner-%03d", i)
		store.SetVideo(entities.Video{
			VideoID:    videoID,
			OwnerID:    ownerID,
			Title:      fmt.Sprintf("video %d", i),
			Visibility: entities.VideoVisibilityPublic,
			Status:     entities.VideoStatusReady,
		})
		store.SetBoostPoints(ownerID, int64(10+i))
		store.AddViews(videoID, int64(i*7))
	}
	return store
}

func TestListRankedWalkCoversEveryVideoExactlyOnce(t *testing.T) {
	store := seedRankedStore(t, 25)
	useCase := ListRankedUseCase{Catalog: store}
	ctx := context.Background()

	seen := make(map[string]int)
	cursor := ""
	pages := 0
	var lastScore float64
	var lastID string
	first := true

	for {
		result, err := useCase.Execute(ctx, ListRankedQuery{Cursor: cursor, Limit: 7})
		if err != nil {
			t.Fatalf("page %d failed: %v", pages, err)
		}
		for _, item := range result.Items {
			seen[item.VideoID]++
			if !first {
				if item.Score > lastScore ||
					(item.Score == lastScore && item.VideoID >= lastID) {
					t.Fatalf("ordering violated at %s", item.VideoID)
				}
			}
			lastScore = item.Score
			lastID = item.VideoID
			first = false
		}
		pages++
		if result.NextCursor == "" {
			break
		}
		cursor = result.NextCursor
		if pages > 10 {
			t.Fatalf("pagination did not terminate")
		}
	}

	if len(seen) != 25 {
		t.Fatalf("expected 25 distinct videos, got %d", len(seen))
	}
	for videoID, count := range seen {
		if count != 1 {
			t.Fatalf("video %s appeared %d times", videoID, count)
		}
	}
	if pages != 4 {
		t.Fatalf("expected 4 pages of up to 7 items, got %d", pages)
	}
}

func TestListRankedCursorReplayIsStable(t *testing.T) {
	store := seedRankedStore(t, 12)
	useCase := ListRankedUseCase{Catalog: store}
	ctx := context.Background()

	firstPage, err := useCase.Execute(ctx, ListRankedQuery{Limit: 5})
	if err != nil {
		t.Fatalf("first page failed: %v", err)
	}
	if firstPage.NextCursor == "" {
		t.Fatalf("expected a next cursor")
	}

	second, err := useCase.Execute(ctx, ListRankedQuery{Cursor: firstPage.NextCursor, Limit: 5})
	if err != nil {
		t.Fatalf("second page failed: %v", err)
	}
	replay, err := useCase.Execute(ctx, ListRankedQuery{Cursor: firstPage.NextCursor, Limit: 5})
	if err != nil {
		t.Fatalf("replayed page failed: %v", err)
	}
	if len(second.Items) != len(replay.Items) {
		t.Fatalf("replay size mismatch: %d vs %d", len(second.Items), len(replay.Items))
	}
	for i := range second.Items {
		if second.Items[i].VideoID != replay.Items[i].VideoID {
			t.Fatalf("replay diverged at index %d", i)
		}
	}
}

func TestListRankedExcludesNonListableVideos(t *testing.T) {
	store := seedRankedStore(t, 3)
	store.SetVideo(entities.Video{
		VideoID:    "video-private",
		OwnerID:    "owner-000",
		Visibility: entities.VideoVisibilityPrivate,
		Status:     entities.VideoStatusReady,
	})
	store.SetVideo(entities.Video{
		VideoID:    "video-processing",
		OwnerID:    "owner-000",
		Visibility: entities.VideoVisibilityPublic,
		Status:     entities.VideoStatusProcessing,
	})
	useCase := ListRankedUseCase{Catalog: store}

	result, err := useCase.Execute(context.Background(), ListRankedQuery{Limit: 50})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, item := range result.Items {
		if item.VideoID == "video-private" || item.VideoID == "video-processing" {
			t.Fatalf("non-listable video %s surfaced in ranked feed", item.VideoID)
		}
	}
}

func TestListRankedForgedCursorYieldsEmptyPage(t *testing.T) {
	store := seedRankedStore(t, 5)
	useCase := ListRankedUseCase{Catalog: store}

	result, err := useCase.Execute(context.Background(), ListRankedQuery{Cursor: "not!!a##cursor", Limit: 5})
	if err != nil {
		t.Fatalf("forged cursor must not error: %v", err)
	}
	if len(result.Items) != 0 || result.NextCursor != "" {
		t.Fatalf("expected empty terminal page, got %d items", len(result.Items))
	}
}

func TestListRankedRejectsOutOfRangeLimit(t *testing.T) {
	store := seedRankedStore(t, 2)
	useCase := ListRankedUseCase{Catalog: store}
	ctx := context.Background()

	for _, limit := range []int{-1, 101} {
		if _, err := useCase.Execute(ctx, ListRankedQuery{Limit: limit}); err != domainerrors.ErrInvalidPageLimit {
			t.Fatalf("limit %d: expected ErrInvalidPageLimit, got %v", limit, err)
		}
	}
}

func TestListRankedZeroReputationOwnersRankLast(t *testing.T) {
	store := memory.NewStore(nil)
	store.SetVideo(entities.Video{
		VideoID:    "video-popular-unreputed",
		OwnerID:    "owner-new",
		Visibility: entities.VideoVisibilityPublic,
		Status:     entities.VideoStatusReady,
	})
	store.AddViews("video-popular-unreputed", 1_000_000)
	store.SetVideo(entities.Video{
		VideoID:    "video-reputed",
		OwnerID:    "owner-known",
		Visibility: entities.VideoVisibilityPublic,
		Status:     entities.VideoStatusReady,
	})
	store.SetBoostPoints("owner-known", 40)
	store.AddViews("video-reputed", 10)

	result, err := ListRankedUseCase{Catalog: store}.Execute(context.Background(), ListRankedQuery{Limit: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected both videos, got %d", len(result.Items))
	}
	if result.Items[0].VideoID != "video-reputed" {
		t.Fatalf("expected reputed owner first, got %s", result.Items[0].VideoID)
	}
	if result.Items[1].Score != 0 {
		t.Fatalf("expected zero score for unreputed owner, got %f", result.Items[1].Score)
	}
}
