package protocol

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/pondwars/pondwars/internal/model"
)

// MaxNicknameLength bounds client-supplied nicknames; longer names are
// truncated, not rejected.
const MaxNicknameLength = 24

// Intent is a decoded client request to mutate game state.
type Intent interface {
	intent()
}

// JoinIntent creates this connection's player.
type JoinIntent struct {
	X        *float64
	Y        *float64
	Stage    *model.Stage
	Nickname string
}

// UpdateIntent reports the client's position and stage. Fields that were
// absent or garbage are nil and must retain the player's previous value.
type UpdateIntent struct {
	X     *float64
	Y     *float64
	Stage *model.Stage
}

// AttackIntent announces a tongue lunge in the given direction.
type AttackIntent struct {
	Heading Vec2
}

// HitIntent claims a melee hit against another player.
type HitIntent struct {
	TargetID model.SessionID
}

// EatIntent claims consumption of a food pellet.
type EatIntent struct{}

// RespawnIntent requests re-entry after death, optionally at a client-chosen
// position.
type RespawnIntent struct {
	X *float64
	Y *float64
}

func (JoinIntent) intent()    {}
func (UpdateIntent) intent()  {}
func (AttackIntent) intent()  {}
func (HitIntent) intent()     {}
func (EatIntent) intent()     {}
func (RespawnIntent) intent() {}

// DecodeIntent parses a raw frame into a typed intent.
//
// A (nil, nil) return means the frame carried an unrecognized type and
// should be ignored. A non-nil error wraps ErrMalformed and means the frame
// should be discarded and logged.
func DecodeIntent(raw []byte) (Intent, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	fields := payloadFields(env.Payload)

	switch env.Type {
	case IntentJoin:
		nickname, ok := stringField(fields, "nickname")
		nickname = strings.TrimSpace(nickname)
		if !ok || nickname == "" {
			return nil, fmt.Errorf("%w: join without nickname", ErrMalformed)
		}
		// Truncate on rune boundaries so a multibyte nickname never
		// degrades into invalid UTF-8.
		if runes := []rune(nickname); len(runes) > MaxNicknameLength {
			nickname = string(runes[:MaxNicknameLength])
		}
		return JoinIntent{
			X:        floatField(fields, "x"),
			Y:        floatField(fields, "y"),
			Stage:    stageField(fields, "stage"),
			Nickname: nickname,
		}, nil

	case IntentUpdate:
		return UpdateIntent{
			X:     floatField(fields, "x"),
			Y:     floatField(fields, "y"),
			Stage: stageField(fields, "stage"),
		}, nil

	case IntentAttack:
		heading, ok := vecField(fields, "heading")
		if !ok {
			return nil, fmt.Errorf("%w: attack without heading", ErrMalformed)
		}
		return AttackIntent{Heading: heading}, nil

	case IntentHit:
		target, ok := stringField(fields, "targetId")
		if !ok || target == "" {
			return nil, fmt.Errorf("%w: hit without targetId", ErrMalformed)
		}
		return HitIntent{TargetID: model.SessionID(target)}, nil

	case IntentEat:
		return EatIntent{}, nil

	case IntentRespawn:
		return RespawnIntent{
			X: floatField(fields, "x"),
			Y: floatField(fields, "y"),
		}, nil

	default:
		// Unknown types are ignored so newer clients can talk to older
		// servers.
		return nil, nil
	}
}

// payloadFields splits a payload object into its raw fields. A missing or
// non-object payload yields an empty map so every field reads as absent.
func payloadFields(payload json.RawMessage) map[string]json.RawMessage {
	fields := make(map[string]json.RawMessage)
	if len(payload) == 0 {
		return fields
	}
	// Ignore the error: a non-object payload is treated as all fields
	// absent, per the trust-and-merge rule.
	_ = json.Unmarshal(payload, &fields)
	return fields
}

// floatField returns the field as a finite float, or nil if absent,
// non-numeric, or non-finite.
func floatField(fields map[string]json.RawMessage, name string) *float64 {
	raw, ok := fields[name]
	if !ok {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// stringField returns the field as a string, reporting whether it was a
// valid string.
func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok {
		return "", false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return v, true
}

// stageField returns the field as a valid life stage, or nil.
func stageField(fields map[string]json.RawMessage, name string) *model.Stage {
	v, ok := stringField(fields, name)
	if !ok {
		return nil
	}
	stage, ok := model.ParseStage(v)
	if !ok {
		return nil
	}
	return &stage
}

// vecField returns the field as a finite 2D vector.
func vecField(fields map[string]json.RawMessage, name string) (Vec2, bool) {
	raw, ok := fields[name]
	if !ok {
		return Vec2{}, false
	}
	var v Vec2
	if err := json.Unmarshal(raw, &v); err != nil {
		return Vec2{}, false
	}
	if math.IsNaN(v.X) || math.IsInf(v.X, 0) || math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
		return Vec2{}, false
	}
	return v, true
}
