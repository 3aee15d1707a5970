package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pondwars/pondwars/internal/api/response"
	"github.com/pondwars/pondwars/internal/model"
	"github.com/pondwars/pondwars/internal/ranking"
)

const (
	// DefaultLeaderboardLimit is used when the query omits a limit.
	DefaultLeaderboardLimit = 10
	// MaxLeaderboardLimit caps the limit a client may request.
	MaxLeaderboardLimit = 50
)

// LeaderboardHandler serves the all-time best-score read path.
type LeaderboardHandler struct {
	ranking ranking.Store
	logger  *slog.Logger
}

// NewLeaderboardHandler creates a LeaderboardHandler
func NewLeaderboardHandler(rankingStore ranking.Store, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		ranking: rankingStore,
		logger:  logger,
	}
}

// Get returns the top N best scores, descending. With no ranking store
// configured the leaderboard is simply empty.
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	limit := DefaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, MaxLeaderboardLimit)
	}

	entries, err := h.ranking.Top(r.Context(), limit)
	if err != nil {
		if !errors.Is(err, model.ErrRankingUnavailable) {
			h.logger.Error("failed to read leaderboard", slog.String("error", err.Error()))
		}
		entries = nil
	}
	if entries == nil {
		entries = []ranking.Entry{}
	}

	response.JSON(w, http.StatusOK, response.LeaderboardResponse{Entries: entries})
}
