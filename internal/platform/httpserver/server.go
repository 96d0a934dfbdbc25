package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	feedranking "boostfeed/contexts/discovery/feed-ranking"
	feederrors "boostfeed/contexts/discovery/feed-ranking/domain/errors"
	feedhttp "boostfeed/contexts/discovery/feed-ranking/transport/http"
	rewardledger "boostfeed/contexts/engagement/reward-ledger"
	rewarderrors "boostfeed/contexts/engagement/reward-ledger/domain/errors"
	rewardhttp "boostfeed/contexts/engagement/reward-ledger/transport/http"
	callerresolver "boostfeed/contexts/identity-access/caller-resolver"
	resolvererrors "boostfeed/contexts/identity-access/caller-resolver/domain/errors"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "boostfeed/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	feed     feedranking.Module
	rewards  rewardledger.Module
	resolver callerresolver.Module
}

func New(
	feed feedranking.Module,
	rewards rewardledger.Module,
	resolver callerresolver.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		feed:     feed,
		rewards:  rewards,
		resolver: resolver,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /v1/feed", s.handleListFeed)
	s.mux.HandleFunc("GET /v1/feed/videos/{video_id}", s.handleGetVideo)
	s.mux.HandleFunc("GET /v1/feed/videos/{video_id}/comments", s.handleListComments)
	s.mux.HandleFunc("GET /v1/feed/videos/{video_id}/comments/{comment_id}/replies", s.handleListReplies)

	s.mux.HandleFunc("POST /v1/rewards/watch", s.handleGrantWatchReward)
}

func (s *Server) handleListFeed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := feedhttp.ListFeedRequest{Cursor: query.Get("cursor")}

	limit, ok := parseLimit(w, query.Get("limit"))
	if !ok {
		return
	}
	req.Limit = limit

	resp, err := s.feed.Handler.ListFeedHandler(r.Context(), req)
	if err != nil {
		writeFeedDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("video_id")
	resp, err := s.feed.Handler.GetVideoHandler(r.Context(), videoID)
	if err != nil {
		writeFeedDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("video_id")
	query := r.URL.Query()

	limit, ok := parseLimit(w, query.Get("limit"))
	if !ok {
		return
	}
	resp, err := s.feed.Handler.ListCommentsHandler(r.Context(), videoID, query.Get("cursor"), limit)
	if err != nil {
		writeFeedDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListReplies(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("video_id")
	parentID := r.PathValue("comment_id")
	query := r.URL.Query()

	limit, ok := parseLimit(w, query.Get("limit"))
	if !ok {
		return
	}
	resp, err := s.feed.Handler.ListRepliesHandler(r.Context(), videoID, parentID, query.Get("cursor"), limit)
	if err != nil {
		writeFeedDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGrantWatchReward(w http.ResponseWriter, r *http.Request) {
	caller, err := s.resolver.Resolver.Execute(r.Context(), r.Header.Get("X-User-Id"))
	if err != nil {
		writeRewardDomainError(w, err)
		return
	}

	var req rewardhttp.GrantWatchRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRewardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.rewards.Handler.GrantWatchRewardHandler(r.Context(), caller.UserID, req)
	if err != nil {
		writeRewardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseLimit(w http.ResponseWriter, raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		writeFeedError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
		return 0, false
	}
	return limit, true
}

func writeFeedDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, feederrors.ErrInvalidPageLimit),
		errors.Is(err, feederrors.ErrInvalidVideoID),
		errors.Is(err, feederrors.ErrInvalidCommentInput):
		writeFeedError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, feederrors.ErrVideoNotFound):
		writeFeedError(w, http.StatusNotFound, "video_not_found", err.Error())
	default:
		writeFeedError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRewardDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, resolvererrors.ErrUnauthenticated),
		errors.Is(err, rewarderrors.ErrViewerNotFound):
		writeRewardError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, rewarderrors.ErrInvalidGrantInput):
		writeRewardError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, rewarderrors.ErrVideoNotFound):
		writeRewardError(w, http.StatusNotFound, "video_not_found", err.Error())
	case errors.Is(err, rewarderrors.ErrVideoNotRewardable),
		errors.Is(err, rewarderrors.ErrSelfRewardForbidden):
		writeRewardError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, rewarderrors.ErrRateLimited):
		writeRewardError(w, http.StatusTooManyRequests, "rate_limited", err.Error())
	case errors.Is(err, rewarderrors.ErrLedgerBusy):
		writeRewardError(w, http.StatusConflict, "ledger_busy", err.Error())
	default:
		writeRewardError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeFeedError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func writeRewardError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
