package errors

import "errors"

var (
	ErrInvalidPageLimit    = errors.New("page limit must be between 1 and 100")
	ErrInvalidVideoID      = errors.New("video id is required")
	ErrInvalidCommentInput = errors.New("invalid comment listing input")
	ErrVideoNotFound       = errors.New("video not found")
)
