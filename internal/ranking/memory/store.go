package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pondwars/pondwars/internal/ranking"
)

// Store is an in-memory implementation of the ranking store
type Store struct {
	mu   sync.RWMutex
	best map[string]int
}

// New creates a new in-memory ranking store
func New() *Store {
	return &Store{
		best: make(map[string]int),
	}
}

// Ensure Store implements the interface
var _ ranking.Store = (*Store)(nil)

func (s *Store) RecordBest(ctx context.Context, nickname string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.best[nickname]; !ok || score > current {
		s.best[nickname] = score
	}
	return nil
}

func (s *Store) CountBetter(ctx context.Context, score int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, best := range s.best {
		if best > score {
			count++
		}
	}
	return count, nil
}

func (s *Store) Top(ctx context.Context, limit int) ([]ranking.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]ranking.Entry, 0, len(s.best))
	for nickname, score := range s.best {
		entries = append(entries, ranking.Entry{Nickname: nickname, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Nickname < entries[j].Nickname
	})

	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}
