package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"boostfeed/contexts/discovery/feed-ranking/domain/entities"
	domainerrors "boostfeed/contexts/discovery/feed-ranking/domain/errors"
	"boostfeed/contexts/discovery/feed-ranking/ports"
	"boostfeed/internal/shared/keyset"
)

// Store keeps the content-store projection in memory: videos, owner boost
// points, and raw engagement rows the aggregator sums on demand.
type Store struct {
	mu sync.RWMutex

	videos      map[string]entities.Video
	boostPoints map[string]int64
	views       map[string]int64
	ratings     map[string][]int
	comments    map[string]entities.Comment
}

func NewStore(seed []entities.Video) *Store {
	videos := make(map[string]entities.Video, len(seed))
	for _, video := range seed {
		videos[video.VideoID] = video
	}
	return &Store{
		videos:      videos,
		boostPoints: make(map[string]int64),
		views:       make(map[string]int64),
		ratings:     make(map[string][]int),
		comments:    make(map[string]entities.Comment),
	}
}

func (s *Store) SetVideo(video entities.Video) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos[strings.TrimSpace(video.VideoID)] = video
}

func (s *Store) SetBoostPoints(userID string, points int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boostPoints[strings.TrimSpace(userID)] = points
}

func (s *Store) AddViews(videoID string, seen int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[strings.TrimSpace(videoID)] += seen
}

func (s *Store) AddRating(videoID string, rating int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	videoID = strings.TrimSpace(videoID)
	s.ratings[videoID] = append(s.ratings[videoID], rating)
}

func (s *Store) SetComment(comment entities.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[strings.TrimSpace(comment.CommentID)] = comment
}

func (s *Store) CollectSignals(_ context.Context) ([]entities.VideoSignals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.VideoSignals, 0, len(s.videos))
	for _, video := range s.videos {
		if !video.IsListable() {
			continue
		}
		items = append(items, s.signalsLocked(video))
	}
	return items, nil
}

func (s *Store) GetVideoDetail(_ context.Context, videoID string) (ports.VideoDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	video, ok := s.videos[strings.TrimSpace(videoID)]
	if !ok {
		return ports.VideoDetail{}, domainerrors.ErrVideoNotFound
	}
	signals := s.signalsLocked(video)
	return ports.VideoDetail{
		Video:            video,
		OwnerBoostPoints: signals.OwnerBoostPoints,
		ViewCount:        signals.ViewCount,
		RatingCount:      signals.RatingCount,
		AvgRating:        signals.AvgRating,
		CommentCount:     signals.CommentCount,
	}, nil
}

func (s *Store) signalsLocked(video entities.Video) entities.VideoSignals {
	ratings := s.ratings[video.VideoID]
	var ratingSum int64
	for _, rating := range ratings {
		ratingSum += int64(rating)
	}
	avgRating := 0.0
	if len(ratings) > 0 {
		avgRating = float64(ratingSum) / float64(len(ratings))
	}

	var commentCount int64
	for _, comment := range s.comments {
		if comment.VideoID == video.VideoID {
			commentCount++
		}
	}

	return entities.VideoSignals{
		VideoID:          video.VideoID,
		OwnerID:          video.OwnerID,
		Title:            video.Title,
		OwnerBoostPoints: s.boostPoints[video.OwnerID],
		ViewCount:        s.views[video.VideoID],
		RatingCount:      int64(len(ratings)),
		AvgRating:        avgRating,
		CommentCount:     commentCount,
		UpdatedAt:        video.UpdatedAt,
	}
}

func (s *Store) ListThread(_ context.Context, videoID string, cursor *ports.CommentCursor, limit int) ([]entities.Comment, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	videoID = strings.TrimSpace(videoID)
	var rows []entities.Comment
	for _, comment := range s.comments {
		if comment.VideoID != videoID || comment.ParentID != "" {
			continue
		}
		rows = append(rows, comment)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].UpdatedAt.Equal(rows[j].UpdatedAt) {
			return rows[i].UpdatedAt.After(rows[j].UpdatedAt)
		}
		return rows[i].CommentID > rows[j].CommentID
	})

	if cursor != nil {
		kept := rows[:0]
		for _, row := range rows {
			if row.UpdatedAt.Before(cursor.UpdatedAt) ||
				(row.UpdatedAt.Equal(cursor.UpdatedAt) && row.CommentID < cursor.CommentID) {
				kept = append(kept, row)
			}
		}
		rows = kept
	}

	if limit > 0 && len(rows) > limit+1 {
		rows = rows[:limit+1]
	}
	page, hasMore := keyset.Cut(rows, limit)
	return page, hasMore, nil
}

func (s *Store) ListReplies(_ context.Context, videoID string, parentID string, cursor *ports.CommentCursor, limit int) ([]entities.Comment, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	videoID = strings.TrimSpace(videoID)
	parentID = strings.TrimSpace(parentID)
	var rows []entities.Comment
	for _, comment := range s.comments {
		if comment.VideoID != videoID || comment.ParentID != parentID {
			continue
		}
		rows = append(rows, comment)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].UpdatedAt.Equal(rows[j].UpdatedAt) {
			return rows[i].UpdatedAt.Before(rows[j].UpdatedAt)
		}
		return rows[i].CommentID < rows[j].CommentID
	})

	if cursor != nil {
		kept := rows[:0]
		for _, row := range rows {
			if row.UpdatedAt.After(cursor.UpdatedAt) ||
				(row.UpdatedAt.Equal(cursor.UpdatedAt) && row.CommentID > cursor.CommentID) {
				kept = append(kept, row)
			}
		}
		rows = kept
	}

	if limit > 0 && len(rows) > limit+1 {
		rows = rows[:limit+1]
	}
	page, hasMore := keyset.Cut(rows, limit)
	return page, hasMore, nil
}

func (s *Store) CountForVideo(_ context.Context, videoID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	videoID = strings.TrimSpace(videoID)
	var count int64
	for _, comment := range s.comments {
		if comment.VideoID == videoID {
			count++
		}
	}
	return count, nil
}
