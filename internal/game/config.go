package game

import "time"

// Config holds the game's tunable rules. Defaults match the original
// balance; change them together or not at all.
type Config struct {
	// FoodReward is the score granted per eaten food pellet.
	FoodReward int
	// KillReward is the score granted for landing the killing hit.
	KillReward int
	// HitDamage is the health removed per confirmed hit.
	HitDamage int
	// MaxHealth is a player's health at join and respawn.
	MaxHealth int
	// PromoteScore is the score at which a tadpole becomes a frog.
	PromoteScore int

	// Arena bounds, used for server-chosen spawn points.
	ArenaWidth  float64
	ArenaHeight float64

	// Palette is the fixed color set assigned round-robin at join.
	Palette []string

	// RankTimeout bounds the background ranking lookups after a death.
	RankTimeout time.Duration
}

// DefaultConfig returns the standard game rules
func DefaultConfig() Config {
	return Config{
		FoodReward:   10,
		KillReward:   50,
		HitDamage:    1,
		MaxHealth:    5,
		PromoteScore: 50,
		ArenaWidth:   2000,
		ArenaHeight:  2000,
		Palette: []string{
			"#e74c3c", // red
			"#2ecc71", // green
			"#3498db", // blue
			"#9b59b6", // purple
			"#f1c40f", // yellow
			"#e67e22", // orange
			"#1abc9c", // teal
			"#ecf0f1", // light grey
		},
		RankTimeout: 3 * time.Second,
	}
}
