package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	feedranking "boostfeed/contexts/discovery/feed-ranking"
	feedentities "boostfeed/contexts/discovery/feed-ranking/domain/entities"
	rewardledger "boostfeed/contexts/engagement/reward-ledger"
	rewardports "boostfeed/contexts/engagement/reward-ledger/ports"
	callerresolver "boostfeed/contexts/identity-access/caller-resolver"
	calleridentities "boostfeed/contexts/identity-access/caller-resolver/domain/entities"
)

func newTestServer() *Server {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	feed := feedranking.NewInMemoryModule([]feedentities.Video{
		{
			VideoID:    "video-1",
			OwnerID:    "creator-1",
			Title:      "Launch day recap",
			Visibility: feedentities.VideoVisibilityPublic,
			Status:     feedentities.VideoStatusReady,
			IsFeatured: true,
			UpdatedAt:  now,
		},
	}, nil)
	feed.Store.SetBoostPoints("creator-1", 400)
	feed.Store.AddViews("video-1", 150)

	rewards := rewardledger.NewInMemoryModule([]rewardports.VideoProjection{
		{VideoID: "video-1", OwnerID: "creator-1", IsFeatured: true, Visibility: "public"},
	}, nil, nil)
	rewards.Store.SetViewer("viewer-1", 0)
	rewards.Store.SetViewer("creator-1", 400)

	resolver := callerresolver.NewInMemoryModule([]calleridentities.Caller{
		{UserID: "viewer-1", DisplayName: "Viewer One"},
		{UserID: "creator-1", DisplayName: "Creator One"},
	}, nil)

	return New(feed, rewards, resolver, nil, "")
}

func TestFeedEndpointReturnsRankedItems(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/v1/feed?limit=10", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Items []struct {
				VideoID string  `json:"video_id"`
				Score   float64 `json:"score"`
			} `json:"items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" || len(resp.Data.Items) != 1 {
		t.Fatalf("unexpected response: %s", rr.Body.String())
	}
	if resp.Data.Items[0].VideoID != "video-1" || resp.Data.Items[0].Score <= 0 {
		t.Fatalf("unexpected ranked item: %+v", resp.Data.Items[0])
	}
}

func TestFeedEndpointRejectsBadLimit(t *testing.T) {
	server := newTestServer()

	for _, target := range []string{"/v1/feed?limit=abc", "/v1/feed?limit=101"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d body=%s", target, rr.Code, rr.Body.String())
		}
	}
}

func TestGetVideoEndpointNotFound(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/v1/feed/videos/video-ghost", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRewardEndpointRequiresCaller(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/v1/rewards/watch", strings.NewReader(`{"video_id":"video-1"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credential, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/rewards/watch", strings.NewReader(`{"video_id":"video-1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "viewer-ghost")
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown credential, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRewardEndpointGrantsThenThrottles(t *testing.T) {
	server := newTestServer()

	grant := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/rewards/watch", strings.NewReader(`{"video_id":"video-1"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-Id", "viewer-1")
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		return rr
	}

	first := grant()
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", first.Code, first.Body.String())
	}
	var resp struct {
		Data struct {
			XPEarned int  `json:"xp_earned"`
			Granted  bool `json:"granted"`
		} `json:"data"`
	}
	if err := json.Unmarshal(first.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.XPEarned != 20 || !resp.Data.Granted {
		t.Fatalf("expected 20 XP grant, got %s", first.Body.String())
	}

	second := grant()
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on immediate retry, got %d body=%s", second.Code, second.Body.String())
	}
}

func TestRewardEndpointForbidsSelfReward(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/v1/rewards/watch", strings.NewReader(`{"video_id":"video-1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "creator-1")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}
