package errors

import "errors"

var (
	ErrInvalidGrantInput   = errors.New("viewer id and video id are required")
	ErrViewerNotFound      = errors.New("viewer not found")
	ErrVideoNotFound       = errors.New("video not found")
	ErrVideoNotRewardable  = errors.New("video is not eligible for rewards")
	ErrSelfRewardForbidden = errors.New("viewers cannot earn xp from their own videos")
	ErrRateLimited         = errors.New("rewards requested too fast")
	ErrLedgerBusy          = errors.New("reward ledger is busy")
)
