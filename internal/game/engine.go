// Package game implements the authoritative rules engine: it owns the
// player store, applies client intents to it, and emits the resulting
// events through a Router.
//
// All intent handling is serialized under one mutex. Nothing inside a
// handler blocks on I/O; the only deferred work is the ranking lookup
// after a death, which runs in the background and may only delay the rank
// numbers inside the victim's death notice.
package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pondwars/pondwars/internal/dependencies/clock"
	"github.com/pondwars/pondwars/internal/dependencies/random"
	"github.com/pondwars/pondwars/internal/model"
	"github.com/pondwars/pondwars/internal/protocol"
	"github.com/pondwars/pondwars/internal/ranking"
)

// Router fans state-change events out to connections. Implementations must
// not block: a slow consumer is the router's problem, never the engine's.
type Router interface {
	// Broadcast sends an event to every connection.
	Broadcast(ev protocol.Event)
	// BroadcastExcept sends an event to every connection but one.
	BroadcastExcept(ev protocol.Event, except model.SessionID)
	// Unicast sends an event to a single connection.
	Unicast(id model.SessionID, ev protocol.Event)
}

// Engine applies client intents to the player store.
type Engine struct {
	mu      sync.Mutex
	store   *Store
	cfg     Config
	router  Router
	ranking ranking.Store
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewEngine creates a rules engine emitting through router and persisting
// best scores through rankingStore.
func NewEngine(
	cfg Config,
	router Router,
	rankingStore ranking.Store,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		store:   NewStore(cfg.Palette),
		cfg:     cfg,
		router:  router,
		ranking: rankingStore,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "game")),
	}
}

// HandleMessage decodes one raw frame from a connection and applies it.
// Malformed frames are discarded and logged; they never drop the
// connection. Intents naming an unknown session or target are no-ops.
func (e *Engine) HandleMessage(id model.SessionID, raw []byte) {
	intent, err := protocol.DecodeIntent(raw)
	if err != nil {
		e.logger.Warn("discarding malformed message",
			slog.String("session", string(id)),
			slog.String("error", err.Error()))
		return
	}
	if intent == nil {
		// Unrecognized type: forward-compatible no-op.
		return
	}

	switch it := intent.(type) {
	case protocol.JoinIntent:
		e.handleJoin(id, it)
	case protocol.UpdateIntent:
		err = e.handleUpdate(id, it)
	case protocol.AttackIntent:
		err = e.handleAttack(id, it)
	case protocol.HitIntent:
		err = e.handleHit(id, it)
	case protocol.EatIntent:
		err = e.handleEat(id)
	case protocol.RespawnIntent:
		err = e.handleRespawn(id, it)
	}

	if err != nil {
		e.logger.Debug("intent ignored",
			slog.String("session", string(id)),
			slog.String("error", err.Error()))
	}
}

// HandleDisconnect removes the session's player, if any, and announces the
// departure. Idempotent: connections that never joined are a no-op.
func (e *Engine) HandleDisconnect(id model.SessionID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.store.Remove(id) {
		return
	}

	e.router.BroadcastExcept(protocol.NewLeftEvent(id), id)
	e.logger.Info("player left",
		slog.String("session", string(id)),
		slog.Int("players", e.store.Len()))
}

// PlayerCount returns the number of live players.
func (e *Engine) PlayerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Len()
}

// handleJoin creates the session's player. A duplicate join overwrites the
// existing record with fresh state; the session keeps its identifier and
// burns a new color slot.
func (e *Engine) handleJoin(id model.SessionID, it protocol.JoinIntent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.store.Get(id); ok {
		e.logger.Info("duplicate join, resetting player",
			slog.String("session", string(id)))
	}

	x, y := e.spawnPointLocked()
	if it.X != nil {
		x = *it.X
	}
	if it.Y != nil {
		y = *it.Y
	}
	stage := model.StageTadpole
	if it.Stage != nil {
		stage = *it.Stage
	}

	player := &model.Player{
		ID:       id,
		Nickname: it.Nickname,
		X:        x,
		Y:        y,
		Stage:    stage,
		Health:   e.cfg.MaxHealth,
		Score:    0,
		Color:    e.store.NextColor(),
		JoinedAt: e.clock.Now(),
	}
	e.store.Put(player)

	e.router.Unicast(id, protocol.NewSyncEvent(id, e.store.Snapshot()))
	e.router.BroadcastExcept(protocol.NewJoinedEvent(*player), id)

	e.logger.Info("player joined",
		slog.String("session", string(id)),
		slog.String("nickname", player.Nickname),
		slog.String("color", player.Color),
		slog.Int("players", e.store.Len()))
}

// handleUpdate merges the client's reported position and stage. Fields the
// codec could not decode stay at their previous value so a garbage frame
// can never teleport a player.
func (e *Engine) handleUpdate(id model.SessionID, it protocol.UpdateIntent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, ok := e.store.Get(id)
	if !ok {
		return model.ErrPlayerNotFound
	}

	if it.X != nil {
		player.X = *it.X
	}
	if it.Y != nil {
		player.Y = *it.Y
	}
	if it.Stage != nil {
		player.Stage = *it.Stage
	}

	// The sender already holds its own authoritative copy; echoing it back
	// would double the broadcast volume for the highest-rate intent.
	e.router.BroadcastExcept(protocol.NewUpdatedEvent(*player, true), id)
	return nil
}

// handleEat grants the food reward. There is no proximity check: food is
// client-simulated and the claim is trusted.
func (e *Engine) handleEat(id model.SessionID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, ok := e.store.Get(id)
	if !ok {
		return model.ErrPlayerNotFound
	}

	player.Score += e.cfg.FoodReward
	e.promoteLocked(player)

	e.router.Broadcast(protocol.NewUpdatedEvent(*player, false))
	return nil
}

// handleAttack relays a lunge to the other players. The server validates
// no cooldown and mutates no state; the lunge is cosmetic until a hit
// claim follows.
func (e *Engine) handleAttack(id model.SessionID, it protocol.AttackIntent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.store.Get(id); !ok {
		return model.ErrPlayerNotFound
	}

	e.router.BroadcastExcept(protocol.NewAttackEvent(id, it.Heading), id)
	return nil
}

// handleHit applies one confirmed hit to the target. Exactly the
// transition of health from positive to zero fires the death handling:
// score/stage reset, rank resolution, kill credit. Hits on an already-dead
// target are no-ops.
func (e *Engine) handleHit(attackerID model.SessionID, it protocol.HitIntent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	target, ok := e.store.Get(it.TargetID)
	if !ok {
		return model.ErrPlayerNotFound
	}
	if !target.Alive() {
		// Already dead, awaiting respawn: no double-death, no double-reward.
		return nil
	}

	target.Health -= e.cfg.HitDamage
	if target.Health > 0 {
		e.router.Broadcast(protocol.NewUpdatedEvent(*target, false))
		return nil
	}
	target.Health = 0

	// Death edge.
	deathScore := target.Score
	target.Score = 0
	target.Stage = model.StageTadpole

	e.router.Broadcast(protocol.NewUpdatedEvent(*target, false))

	// Map rank is computed here, inside the serialized section, so it sees
	// the scores as they stood at the moment of death.
	mapRank := e.store.CountScoreGreater(deathScore) + 1

	e.logger.Info("player died",
		slog.String("session", string(target.ID)),
		slog.String("killer", string(attackerID)),
		slog.Int("score", deathScore),
		slog.Int("map_rank", mapRank))

	// Credit whoever sent the confirming hit, which may differ from the
	// connection that lunged. Self-kills earn nothing.
	if attacker, ok := e.store.Get(attackerID); ok && attackerID != target.ID {
		attacker.Score += e.cfg.KillReward
		e.promoteLocked(attacker)
		e.router.Broadcast(protocol.NewUpdatedEvent(*attacker, false))
	}

	// The overall rank and the persist hit external storage; both run in
	// the background so a slow ranking store never stalls intent handling.
	go e.resolveDeath(target.ID, target.Nickname, deathScore, mapRank)

	return nil
}

// handleRespawn re-initializes a dead player, keeping color and nickname.
func (e *Engine) handleRespawn(id model.SessionID, it protocol.RespawnIntent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, ok := e.store.Get(id)
	if !ok {
		return model.ErrPlayerNotFound
	}
	if player.Alive() {
		return model.ErrPlayerNotDead
	}

	x, y := e.spawnPointLocked()
	if it.X != nil {
		x = *it.X
	}
	if it.Y != nil {
		y = *it.Y
	}

	player.X = x
	player.Y = y
	player.Health = e.cfg.MaxHealth
	player.Score = 0
	player.Stage = model.StageTadpole

	e.router.Broadcast(protocol.NewUpdatedEvent(*player, false))
	return nil
}

// promoteLocked flips a tadpole to a frog once its score reaches the
// threshold. Re-checked after every score increase; death resets the stage.
func (e *Engine) promoteLocked(p *model.Player) {
	if p.Stage == model.StageTadpole && p.Score >= e.cfg.PromoteScore {
		p.Stage = model.StageFrog
	}
}

// spawnPointLocked picks a random spawn position within arena bounds.
func (e *Engine) spawnPointLocked() (float64, float64) {
	return e.random.Float64() * e.cfg.ArenaWidth, e.random.Float64() * e.cfg.ArenaHeight
}

// resolveDeath finishes a death off the hot path: it resolves the victim's
// overall rank, persists the best score, and unicasts the death notice.
// Ranking failures degrade to null ranks; they never affect live play.
func (e *Engine) resolveDeath(victim model.SessionID, nickname string, score, mapRank int) {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.RankTimeout)
	defer cancel()

	var overallRank *int
	count, err := e.ranking.CountBetter(ctx, score)
	if err != nil {
		e.logger.Warn("overall rank unavailable",
			slog.String("session", string(victim)),
			slog.String("error", err.Error()))
	} else {
		rank := count + 1
		overallRank = &rank
	}

	if err := e.ranking.RecordBest(ctx, nickname, score); err != nil {
		e.logger.Warn("failed to persist best score",
			slog.String("nickname", nickname),
			slog.Int("score", score),
			slog.String("error", err.Error()))
	}

	e.router.Unicast(victim, protocol.NewDiedEvent(score, &mapRank, overallRank))
}
