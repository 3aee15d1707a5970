package game

import (
	"github.com/pondwars/pondwars/internal/model"
)

// Store is the single source of truth for live players.
//
// It is not safe for concurrent use on its own: the engine serializes all
// access under its intent-handling lock, which is what makes the
// read-then-write on health and the death edge race-free.
type Store struct {
	players map[model.SessionID]*model.Player
	palette []string

	// joins counts successful joins for the process lifetime; colors are
	// assigned palette[joins mod len(palette)] and never reclaimed.
	joins int
}

// NewStore creates an empty player store drawing colors from palette.
func NewStore(palette []string) *Store {
	return &Store{
		players: make(map[model.SessionID]*model.Player),
		palette: palette,
	}
}

// Get returns the player for a session, if one exists.
func (s *Store) Get(id model.SessionID) (*model.Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

// Put inserts or replaces the player for its session.
func (s *Store) Put(p *model.Player) {
	s.players[p.ID] = p
}

// Remove deletes the player for a session, reporting whether one existed.
// Safe to call for sessions that never completed a join.
func (s *Store) Remove(id model.SessionID) bool {
	if _, ok := s.players[id]; !ok {
		return false
	}
	delete(s.players, id)
	return true
}

// Len returns the number of live players.
func (s *Store) Len() int {
	return len(s.players)
}

// NextColor assigns the next palette color, round-robin across all joins.
func (s *Store) NextColor() string {
	color := s.palette[s.joins%len(s.palette)]
	s.joins++
	return color
}

// Snapshot copies all live players for broadcasting.
func (s *Store) Snapshot() []model.Player {
	players := make([]model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, *p)
	}
	return players
}

// CountScoreGreater returns how many live players have a score strictly
// greater than score.
func (s *Store) CountScoreGreater(score int) int {
	count := 0
	for _, p := range s.players {
		if p.Score > score {
			count++
		}
	}
	return count
}
