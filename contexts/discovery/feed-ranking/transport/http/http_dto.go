package httptransport

type ListFeedRequest struct {
	Cursor string `json:"cursor"`
	Limit  int    `json:"limit"`
}

type RankedVideoDTO struct {
	VideoID      string  `json:"video_id"`
	Title        string  `json:"title"`
	OwnerID      string  `json:"owner_id"`
	Score        float64 `json:"score"`
	ViewCount    int64   `json:"view_count"`
	RatingCount  int64   `json:"rating_count"`
	AvgRating    float64 `json:"avg_rating"`
	CommentCount int64   `json:"comment_count"`
	UpdatedAt    string  `json:"updated_at"`
}

type ListFeedResponse struct {
	Status string `json:"status"`
	Data   struct {
		Items      []RankedVideoDTO `json:"items"`
		NextCursor string           `json:"next_cursor,omitempty"`
	} `json:"data"`
}

type VideoDetailResponse struct {
	Status string `json:"status"`
	Data   struct {
		VideoID          string  `json:"video_id"`
		OwnerID          string  `json:"owner_id"`
		Title            string  `json:"title"`
		Visibility       string  `json:"visibility"`
		ProcessingStatus string  `json:"processing_status"`
		IsFeatured       bool    `json:"is_featured"`
		Score            float64 `json:"score"`
		OwnerBoostPoints int64   `json:"owner_boost_points"`
		ViewCount        int64   `json:"view_count"`
		RatingCount      int64   `json:"rating_count"`
		AvgRating        float64 `json:"avg_rating"`
		CommentCount     int64   `json:"comment_count"`
		UpdatedAt        string  `json:"updated_at"`
	} `json:"data"`
}

type CommentDTO struct {
	CommentID string `json:"comment_id"`
	VideoID   string `json:"video_id"`
	ParentID  string `json:"parent_id,omitempty"`
	UserID    string `json:"user_id"`
	Body      string `json:"body"`
	LikeCount int64  `json:"like_count"`
	UpdatedAt string `json:"updated_at"`
}

type ListCommentsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Comments     []CommentDTO `json:"comments"`
		CommentCount int64        `json:"comment_count"`
		NextCursor   string       `json:"next_cursor,omitempty"`
	} `json:"data"`
}

type ListRepliesResponse struct {
	Status string `json:"status"`
	Data   struct {
		Comments   []CommentDTO `json:"comments"`
		NextCursor string       `json:"next_cursor,omitempty"`
	} `json:"data"`
}
