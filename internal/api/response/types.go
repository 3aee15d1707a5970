package response

import "github.com/pondwars/pondwars/internal/ranking"

// LeaderboardResponse is the body of the leaderboard read API.
type LeaderboardResponse struct {
	Entries []ranking.Entry `json:"entries"`
}

// HealthResponse reports liveness and the state of optional dependencies.
type HealthResponse struct {
	Status  string `json:"status"`
	Players int    `json:"players"`
	Ranking string `json:"ranking"`
}

// ErrorResponse is the body of any API error.
type ErrorResponse struct {
	Error string `json:"error"`
}
