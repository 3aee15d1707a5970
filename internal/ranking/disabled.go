package ranking

import (
	"context"

	"github.com/pondwars/pondwars/internal/model"
)

// Disabled is the store used when no ranking backend is configured.
// Writes are silently skipped and reads report the store as unavailable,
// which surfaces to players as null ranks and an empty leaderboard.
type Disabled struct{}

var _ Store = Disabled{}

// NewDisabled creates a Disabled store
func NewDisabled() Disabled {
	return Disabled{}
}

func (Disabled) RecordBest(ctx context.Context, nickname string, score int) error {
	return nil
}

func (Disabled) CountBetter(ctx context.Context, score int) (int, error) {
	return 0, model.ErrRankingUnavailable
}

func (Disabled) Top(ctx context.Context, limit int) ([]Entry, error) {
	return nil, model.ErrRankingUnavailable
}

func (Disabled) Ping(ctx context.Context) error {
	return model.ErrRankingUnavailable
}
