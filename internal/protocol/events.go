package protocol

import (
	"encoding/json"

	"github.com/pondwars/pondwars/internal/model"
)

// Event is a typed server-to-client message plus its delivery class.
// Volatile events are best-effort: a backpressured connection skips them
// rather than queueing stale state.
type Event struct {
	Type     string
	Payload  any
	Volatile bool
}

// Encode serializes the event into its wire envelope.
func (e Event) Encode() ([]byte, error) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: e.Type, Payload: payload})
}

// SyncPayload is the full snapshot unicast to a player after its join is
// accepted.
type SyncPayload struct {
	SelfID  model.SessionID `json:"selfId"`
	Players []model.Player  `json:"players"`
}

// UpdatedPayload carries one player's authoritative state after a change.
type UpdatedPayload struct {
	ID     model.SessionID `json:"id"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Stage  model.Stage     `json:"stage"`
	Health int             `json:"hp"`
	Score  int             `json:"score"`
	Color  string          `json:"color"`
}

// AttackPayload relays a player's tongue lunge.
type AttackPayload struct {
	ID      model.SessionID `json:"id"`
	Heading Vec2            `json:"heading"`
}

// DiedPayload is unicast to the victim on the death edge. Ranks are null
// when the ranking store is unavailable.
type DiedPayload struct {
	Score       int  `json:"score"`
	MapRank     *int `json:"mapRank"`
	OverallRank *int `json:"overallRank"`
}

// LeftPayload announces a departed player.
type LeftPayload struct {
	ID model.SessionID `json:"id"`
}

// NewSyncEvent builds the post-join snapshot for one player.
func NewSyncEvent(selfID model.SessionID, players []model.Player) Event {
	return Event{Type: EventSync, Payload: SyncPayload{SelfID: selfID, Players: players}}
}

// NewJoinedEvent announces a fresh player to everyone else.
func NewJoinedEvent(player model.Player) Event {
	return Event{Type: EventJoined, Payload: player}
}

// NewUpdatedEvent carries a player's current state. Volatile marks
// position-stream updates that may be dropped under backpressure; state
// changes from combat and scoring are always reliable.
func NewUpdatedEvent(player model.Player, volatile bool) Event {
	return Event{
		Type: EventUpdated,
		Payload: UpdatedPayload{
			ID:     player.ID,
			X:      player.X,
			Y:      player.Y,
			Stage:  player.Stage,
			Health: player.Health,
			Score:  player.Score,
			Color:  player.Color,
		},
		Volatile: volatile,
	}
}

// NewAttackEvent relays a lunge to the other players.
func NewAttackEvent(id model.SessionID, heading Vec2) Event {
	return Event{Type: EventAttack, Payload: AttackPayload{ID: id, Heading: heading}}
}

// NewDiedEvent builds the victim's death notice.
func NewDiedEvent(score int, mapRank, overallRank *int) Event {
	return Event{Type: EventDied, Payload: DiedPayload{Score: score, MapRank: mapRank, OverallRank: overallRank}}
}

// NewLeftEvent announces a departed player.
func NewLeftEvent(id model.SessionID) Event {
	return Event{Type: EventLeft, Payload: LeftPayload{ID: id}}
}
