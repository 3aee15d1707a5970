// Package ranking persists all-time best scores keyed by nickname.
//
// Ranking is an optional enhancement, never a hard dependency of live
// gameplay: every implementation degrades to "no rank available" rather
// than failing a match.
package ranking

import "context"

// Entry is one leaderboard row.
type Entry struct {
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
}

// Store is the gateway to the best-score table.
//
// Records are keyed by nickname, not session: two sessions playing under
// the same nickname share one leaderboard identity. A documented
// simplification, not a bug.
type Store interface {
	// RecordBest upserts a nickname's score, keeping the maximum ever
	// seen. Idempotent and commutative under concurrent calls.
	RecordBest(ctx context.Context, nickname string, score int) error

	// CountBetter returns how many stored records have a strictly
	// greater score. Rank = that count + 1.
	CountBetter(ctx context.Context, score int) (int, error)

	// Top returns the best scores in descending order, at most limit
	// entries.
	Top(ctx context.Context, limit int) ([]Entry, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
