// Package protocol defines the wire format spoken over a player's websocket:
// JSON envelopes of the form {"type": string, "payload": object}.
//
// Inbound payloads are untrusted. Decoding is tolerant by construction:
// malformed frames are reported as errors for the caller to discard and log,
// unknown message types are a forward-compatible no-op, and individual
// fields of the wrong type are dropped rather than failing the whole frame.
package protocol

import (
	"encoding/json"
	"errors"
)

// Client -> server intent types.
const (
	IntentJoin    = "join"
	IntentUpdate  = "update"
	IntentAttack  = "attack"
	IntentHit     = "hit"
	IntentEat     = "eat"
	IntentRespawn = "respawn"
)

// Server -> client event types.
const (
	EventSync    = "players:sync"
	EventJoined  = "player:joined"
	EventUpdated = "player:updated"
	EventAttack  = "player:attack"
	EventDied    = "player:died"
	EventLeft    = "player:left"
)

// ErrMalformed indicates a frame that could not be decoded as a valid
// intent. Callers discard and log; a malformed frame never drops the
// connection.
var ErrMalformed = errors.New("malformed message")

// Envelope is the outer shape of every wire message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Vec2 is a 2D vector or coordinate.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
