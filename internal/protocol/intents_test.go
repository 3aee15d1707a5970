package protocol

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pondwars/pondwars/internal/model"
)

func TestDecodeIntentRejectsInvalidJSON(t *testing.T) {
	_, err := DecodeIntent([]byte("not json"))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeIntentIgnoresUnknownType(t *testing.T) {
	intent, err := DecodeIntent([]byte(`{"type":"emote","payload":{"kind":"dance"}}`))
	require.NoError(t, err)
	assert.Nil(t, intent, "unknown types are a forward-compatible no-op")
}

func TestDecodeJoin(t *testing.T) {
	intent, err := DecodeIntent([]byte(`{"type":"join","payload":{"x":1.5,"y":2.5,"stage":"frog","nickname":"  alice "}}`))
	require.NoError(t, err)

	join, ok := intent.(JoinIntent)
	require.True(t, ok)
	require.NotNil(t, join.X)
	assert.Equal(t, 1.5, *join.X)
	require.NotNil(t, join.Y)
	assert.Equal(t, 2.5, *join.Y)
	require.NotNil(t, join.Stage)
	assert.Equal(t, model.StageFrog, *join.Stage)
	assert.Equal(t, "alice", join.Nickname, "nickname is trimmed")
}

func TestDecodeJoinRequiresNickname(t *testing.T) {
	for _, payload := range []string{`{}`, `{"nickname":""}`, `{"nickname":"   "}`, `{"nickname":42}`} {
		_, err := DecodeIntent([]byte(`{"type":"join","payload":` + payload + `}`))
		assert.ErrorIs(t, err, ErrMalformed, "payload %s", payload)
	}
}

func TestDecodeJoinTruncatesLongNickname(t *testing.T) {
	long := strings.Repeat("x", 100)
	intent, err := DecodeIntent([]byte(`{"type":"join","payload":{"nickname":"` + long + `"}}`))
	require.NoError(t, err)
	assert.Len(t, intent.(JoinIntent).Nickname, MaxNicknameLength)
}

func TestDecodeJoinTruncatesLongNicknameOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("蛙", 100)
	intent, err := DecodeIntent([]byte(`{"type":"join","payload":{"nickname":"` + long + `"}}`))
	require.NoError(t, err)

	nickname := intent.(JoinIntent).Nickname
	assert.True(t, utf8.ValidString(nickname), "truncation must not split a rune")
	assert.Equal(t, strings.Repeat("蛙", MaxNicknameLength), nickname)
}

func TestDecodeUpdateDropsGarbageFieldsNotTheFrame(t *testing.T) {
	intent, err := DecodeIntent([]byte(`{"type":"update","payload":{"x":"not-a-number","y":3.0,"stage":"larva"}}`))
	require.NoError(t, err)

	update, ok := intent.(UpdateIntent)
	require.True(t, ok)
	assert.Nil(t, update.X, "non-numeric x reads as absent")
	require.NotNil(t, update.Y)
	assert.Equal(t, 3.0, *update.Y)
	assert.Nil(t, update.Stage, "unknown stage reads as absent")
}

func TestDecodeUpdateWithEmptyPayload(t *testing.T) {
	intent, err := DecodeIntent([]byte(`{"type":"update"}`))
	require.NoError(t, err)

	update := intent.(UpdateIntent)
	assert.Nil(t, update.X)
	assert.Nil(t, update.Y)
	assert.Nil(t, update.Stage)
}

func TestDecodeAttackRequiresFiniteHeading(t *testing.T) {
	intent, err := DecodeIntent([]byte(`{"type":"attack","payload":{"heading":{"x":0.6,"y":-0.8}}}`))
	require.NoError(t, err)
	attack := intent.(AttackIntent)
	assert.Equal(t, Vec2{X: 0.6, Y: -0.8}, attack.Heading)

	for _, payload := range []string{`{}`, `{"heading":"north"}`, `{"heading":{"x":"a","y":1}}`} {
		_, err := DecodeIntent([]byte(`{"type":"attack","payload":` + payload + `}`))
		assert.ErrorIs(t, err, ErrMalformed, "payload %s", payload)
	}
}

func TestDecodeHit(t *testing.T) {
	intent, err := DecodeIntent([]byte(`{"type":"hit","payload":{"targetId":"abc-123"}}`))
	require.NoError(t, err)
	assert.Equal(t, model.SessionID("abc-123"), intent.(HitIntent).TargetID)

	_, err = DecodeIntent([]byte(`{"type":"hit","payload":{}}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeEat(t *testing.T) {
	intent, err := DecodeIntent([]byte(`{"type":"eat","payload":{}}`))
	require.NoError(t, err)
	assert.IsType(t, EatIntent{}, intent)
}

func TestDecodeRespawnCoordinatesOptional(t *testing.T) {
	intent, err := DecodeIntent([]byte(`{"type":"respawn","payload":{"x":12.0}}`))
	require.NoError(t, err)

	respawn := intent.(RespawnIntent)
	require.NotNil(t, respawn.X)
	assert.Equal(t, 12.0, *respawn.X)
	assert.Nil(t, respawn.Y)
}
