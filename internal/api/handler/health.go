package handler

import (
	"net/http"

	"github.com/pondwars/pondwars/internal/api/response"
	"github.com/pondwars/pondwars/internal/ranking"
)

// PlayerCounter reports how many players are currently in the arena.
type PlayerCounter interface {
	PlayerCount() int
}

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	players PlayerCounter
	ranking ranking.Store
}

// NewHealthHandler creates a HealthHandler
func NewHealthHandler(players PlayerCounter, rankingStore ranking.Store) *HealthHandler {
	return &HealthHandler{
		players: players,
		ranking: rankingStore,
	}
}

// Get reports server health. An unreachable ranking store is degraded, not
// unhealthy: gameplay does not depend on it.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	rankingStatus := "ok"
	if err := h.ranking.Ping(r.Context()); err != nil {
		rankingStatus = "unavailable"
	}

	response.JSON(w, http.StatusOK, response.HealthResponse{
		Status:  "ok",
		Players: h.players.PlayerCount(),
		Ranking: rankingStatus,
	})
}
