package socketio_utils

import (
	"Spotit/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	// socket.io hands arguments over as generic maps
	arg := map[string]interface{}{
		"roomId":        "room1",
		"differencePos": map[string]interface{}{"x": 3, "y": 7},
		"username":      "alice",
	}

	var payload struct {
		RoomID        string          `json:"roomId"`
		DifferencePos models.Vector2D `json:"differencePos"`
		Username      string          `json:"username"`
	}
	require.NoError(t, DecodePayload(arg, &payload))
	assert.Equal(t, "room1", payload.RoomID)
	assert.Equal(t, models.Vector2D{X: 3, Y: 7}, payload.DifferencePos)
	assert.Equal(t, "alice", payload.Username)
}

func TestDecodePayloadShapeMismatch(t *testing.T) {
	var payload struct {
		RoomID string `json:"roomId"`
	}
	err := DecodePayload(map[string]interface{}{"roomId": 42}, &payload)
	assert.Error(t, err)
}

func TestStringArg(t *testing.T) {
	args := []interface{}{"room1", 42}

	value, ok := StringArg(args, 0)
	assert.True(t, ok)
	assert.Equal(t, "room1", value)

	_, ok = StringArg(args, 1)
	assert.False(t, ok)

	_, ok = StringArg(args, 5)
	assert.False(t, ok)
}
