package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/pondwars/pondwars/internal/dependencies/clock"
	"github.com/pondwars/pondwars/internal/dependencies/random"
	"github.com/pondwars/pondwars/internal/game"
	"github.com/pondwars/pondwars/internal/ranking"
	"github.com/pondwars/pondwars/internal/ranking/memory"
	redisranking "github.com/pondwars/pondwars/internal/ranking/redis"
	"github.com/pondwars/pondwars/internal/ws"
)

// Ranking store type constants
const (
	RankingTypeDisabled = "disabled"
	RankingTypeMemory   = "memory"
	RankingTypeRedis    = "redis"
)

// App contains all wired application components
type App struct {
	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Core components
	RankingStore ranking.Store
	Hub          *ws.Hub
	Engine       *game.Engine
}

// Config holds configuration for the application factory
type Config struct {
	// GameConfig holds the game rule tunables (optional)
	// If zero value, defaults to game.DefaultConfig()
	GameConfig game.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// RankingType selects the ranking backend ("disabled", "memory" or "redis")
	// If empty, defaults to "disabled"
	RankingType string
	// RedisConfig holds Redis connection settings (required if RankingType is "redis")
	RedisConfig *redisranking.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create ranking store based on type
	var store ranking.Store
	rankingType := cfg.RankingType
	if rankingType == "" {
		rankingType = RankingTypeDisabled
	}

	switch rankingType {
	case RankingTypeDisabled:
		store = ranking.NewDisabled()
	case RankingTypeMemory:
		store = memory.New()
	case RankingTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when RankingType is redis")
		}
		redisStore, err := redisranking.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid RankingType: must be 'disabled', 'memory' or 'redis'")
	}

	gameCfg := cfg.GameConfig
	if gameCfg.MaxHealth == 0 {
		gameCfg = game.DefaultConfig()
	}

	return newWithDependencies(gameCfg, store, clock.New(), random.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	gameCfg game.Config,
	store ranking.Store,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *App {
	hub := ws.NewHub(clk, logger)
	engine := game.NewEngine(gameCfg, hub, store, clk, rnd, logger)
	hub.SetHandler(engine)

	return &App{
		Clock:        clk,
		Random:       rnd,
		RankingStore: store,
		Hub:          hub,
		Engine:       engine,
	}
}
