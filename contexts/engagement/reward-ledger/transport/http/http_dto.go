package httptransport

type GrantWatchRewardRequest struct {
	VideoID string `json:"video_id"`
}

type GrantWatchRewardResponse struct {
	Status string `json:"status"`
	Data   struct {
		XPEarned int    `json:"xp_earned"`
		Message  string `json:"message"`
		Granted  bool   `json:"granted"`
	} `json:"data"`
}
