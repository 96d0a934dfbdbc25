package services

import "time"

const (
	// EligibilityWindow is both the per-video renewal interval and the
	// trailing window the payout tier counts grants over. A viewer renewing
	// 8 distinct featured videos in one window therefore exhausts the tier
	// curve; product has confirmed the cross-video interaction stands.
	EligibilityWindow = 20 * time.Hour

	// MinGrantInterval is the global anti-bot spacing between any two grants
	// to the same viewer, regardless of video.
	MinGrantInterval = 10 * time.Second

	DailyLimitMessage   = "Daily XP limit reached for watching videos."
	AlreadyGrantedReply = "You've already earned rewards for this video recently."
)

// XPForWindowCount returns the XP tier for the next grant given how many
// grants the viewer already received inside the trailing eligibility window.
// The curve decays instead of cutting off: a zero-XP grant still succeeds.
func XPForWindowCount(count int) (int, string) {
	switch {
	case count < 5:
		return 20, ""
	case count == 5:
		return 15, ""
	case count == 6:
		return 10, ""
	case count == 7:
		return 5, ""
	default:
		return 0, DailyLimitMessage
	}
}
