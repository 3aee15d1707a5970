package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pondwars/pondwars/internal/api/handler"
	"github.com/pondwars/pondwars/internal/middleware"
	"github.com/pondwars/pondwars/internal/ranking"
	"github.com/pondwars/pondwars/internal/ws"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger       *slog.Logger
	Hub          *ws.Hub
	RankingStore ranking.Store
	Players      handler.PlayerCounter
}

// NewRouter creates the server's router: the websocket endpoint plus the
// JSON read API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.RankingStore, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.Players, cfg.RankingStore)

	// The game socket. No logging middleware here: the connection is
	// long-lived and logged by the hub itself.
	r.HandleFunc("/ws", cfg.Hub.ServeWS)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	return r
}
