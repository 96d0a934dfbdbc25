package queries

import (
	"context"
	"log/slog"
	"sort"

	application "boostfeed/contexts/discovery/feed-ranking/application"
	"boostfeed/contexts/discovery/feed-ranking/domain/entities"
	domainerrors "boostfeed/contexts/discovery/feed-ranking/domain/errors"
	"boostfeed/contexts/discovery/feed-ranking/domain/services"
	"boostfeed/contexts/discovery/feed-ranking/ports"
	"boostfeed/internal/shared/keyset"
)

type ListRankedQuery struct {
	Cursor string
	Limit  int
}

type ListRankedResult struct {
	Items      []entities.RankedVideo
	NextCursor string
}

// ListRankedUseCase is the rank builder: it pulls aggregated signals in one
// batched read, scores them in-process, orders by (score DESC, id DESC), and
// cuts a keyset page.
type ListRankedUseCase struct {
	Catalog ports.VideoCatalog
	Logger  *slog.Logger
}

func (u ListRankedUseCase) Execute(ctx context.Context, query ListRankedQuery) (ListRankedResult, error) {
	logger := application.ResolveLogger(u.Logger)

	limit := query.Limit
	if limit == 0 {
		limit = 20
	}
	if limit < 1 || limit > 100 {
		return ListRankedResult{}, domainerrors.ErrInvalidPageLimit
	}

	cursor, hasCursor := keyset.Decode[ports.RankCursor](query.Cursor)
	if query.Cursor != "" && !hasCursor {
		// Forged or stale token: nothing is strictly past an unknown
		// boundary, so the caller gets a valid empty page.
		return ListRankedResult{Items: []entities.RankedVideo{}}, nil
	}

	signals, err := u.Catalog.CollectSignals(ctx)
	if err != nil {
		logger.Error("ranked feed signal collection failed",
			"event", "feed_list_ranked_failed",
			"module", "discovery/feed-ranking",
			"layer", "application",
			"error", err.Error(),
		)
		return ListRankedResult{}, err
	}

	ranked := make([]entities.RankedVideo, 0, len(signals))
	for _, item := range signals {
		ranked = append(ranked, entities.RankedVideo{
			VideoSignals: item,
			Score:        services.Score(item),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].VideoID > ranked[j].VideoID
	})

	if hasCursor {
		kept := make([]entities.RankedVideo, 0, len(ranked))
		for _, item := range ranked {
			if item.Score < cursor.Score ||
				(item.Score == cursor.Score && item.VideoID < cursor.VideoID) {
				kept = append(kept, item)
			}
		}
		ranked = kept
	}

	if len(ranked) > limit+1 {
		ranked = ranked[:limit+1]
	}
	page, hasMore := keyset.Cut(ranked, limit)

	result := ListRankedResult{Items: page}
	if hasMore {
		last := page[len(page)-1]
		result.NextCursor = keyset.Encode(ports.RankCursor{
			Score:   last.Score,
			VideoID: last.VideoID,
		})
	}

	logger.Info("ranked feed page built",
		"event", "feed_list_ranked_completed",
		"module", "discovery/feed-ranking",
		"layer", "application",
		"items_count", len(result.Items),
		"has_next_cursor", result.NextCursor != "",
	)
	return result, nil
}
