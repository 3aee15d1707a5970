package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pondwars/pondwars/internal/ranking"
)

// Store is a Redis-backed implementation of the ranking store. Best scores
// live in a single sorted set keyed by nickname, which makes the monotonic
// max upsert, the strictly-greater count, and the top-N read each one
// round trip.
type Store struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis ranking store
func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Store{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis ranking store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Store {
	return &Store{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements the interface
var _ ranking.Store = (*Store)(nil)

func (s *Store) RecordBest(ctx context.Context, nickname string, score int) error {
	// ZADD GT only moves scores upward, so the best score never decreases
	// no matter how concurrent deaths interleave.
	return s.client.ZAddGT(ctx, leaderboardKey(), redis.Z{
		Score:  float64(score),
		Member: nickname,
	}).Err()
}

func (s *Store) CountBetter(ctx context.Context, score int) (int, error) {
	count, err := s.client.ZCount(ctx, leaderboardKey(), fmt.Sprintf("(%d", score), "+inf").Result()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (s *Store) Top(ctx context.Context, limit int) ([]ranking.Entry, error) {
	if limit <= 0 {
		return []ranking.Entry{}, nil
	}

	results, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]ranking.Entry, 0, len(results))
	for _, z := range results {
		nickname, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, ranking.Entry{
			Nickname: nickname,
			Score:    int(z.Score),
		})
	}
	return entries, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
