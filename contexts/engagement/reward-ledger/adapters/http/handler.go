package httpadapter

import (
	"context"
	"log/slog"

	"boostfeed/contexts/engagement/reward-ledger/application/commands"
	httptransport "boostfeed/contexts/engagement/reward-ledger/transport/http"
)

type Handler struct {
	GrantReward commands.GrantWatchRewardUseCase
	Logger      *slog.Logger
}

func (h Handler) GrantWatchRewardHandler(ctx context.Context, userID string, req httptransport.GrantWatchRewardRequest) (httptransport.GrantWatchRewardResponse, error) {
	result, err := h.GrantReward.Execute(ctx, commands.GrantWatchRewardInput{
		UserID:  userID,
		VideoID: req.VideoID,
	})
	if err != nil {
		return httptransport.GrantWatchRewardResponse{}, err
	}

	resp := httptransport.GrantWatchRewardResponse{Status: "success"}
	resp.Data.XPEarned = result.XPEarned
	resp.Data.Message = result.Message
	resp.Data.Granted = result.Granted
	return resp, nil
}
