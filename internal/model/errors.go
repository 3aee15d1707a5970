package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerNotDead  = errors.New("player is not dead")

	// Ranking errors
	ErrRankingUnavailable = errors.New("ranking store unavailable")
)
