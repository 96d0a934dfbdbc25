package entities

import "time"

// RewardGrant records the most recent reward for one (viewer, video) pair.
// At most one row exists per pair; renewals update the row in place.
type RewardGrant struct {
	GrantID   string
	UserID    string
	VideoID   string
	XPEarned  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RenewableAt is the earliest instant the same pair can earn again.
func (g RewardGrant) RenewableAt(window time.Duration) time.Time {
	return g.UpdatedAt.Add(window)
}
