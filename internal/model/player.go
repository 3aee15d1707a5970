package model

import "time"

// SessionID uniquely identifies one live connection's player. IDs are
// server-assigned random tokens: they are visible to every client, so they
// must not be guessable or enumerable.
type SessionID string

// Stage is a player's life stage.
type Stage string

const (
	StageTadpole Stage = "tadpole"
	StageFrog    Stage = "frog"
)

// ParseStage validates a stage string received from a client.
func ParseStage(value string) (Stage, bool) {
	switch Stage(value) {
	case StageTadpole, StageFrog:
		return Stage(value), true
	default:
		return "", false
	}
}

// Player is the authoritative record for one connected player.
// It exists from a completed join until disconnect; death keeps the record
// (health 0, awaiting respawn) so the session identifier stays valid.
type Player struct {
	ID       SessionID `json:"id"`
	Nickname string    `json:"nickname"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Stage    Stage     `json:"stage"`
	Health   int       `json:"hp"`
	Score    int       `json:"score"`
	Color    string    `json:"color"`
	JoinedAt time.Time `json:"-"`
}

// Alive reports whether the player can currently take damage.
func (p *Player) Alive() bool {
	return p.Health > 0
}
