package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestDecodeMatrix(t *testing.T) {
	game := &Game{
		Name:             "forest",
		NbDifference:     2,
		DifferenceMatrix: datatypes.JSON(`[[-1,1,-1],[-1,-1,2]]`),
	}

	matrix, err := game.DecodeMatrix()
	require.NoError(t, err)
	assert.Equal(t, [][]int{{-1, 1, -1}, {-1, -1, 2}}, matrix)
}

func TestDecodeMatrixInvalidPayload(t *testing.T) {
	game := &Game{DifferenceMatrix: datatypes.JSON(`"not a matrix"`)}
	_, err := game.DecodeMatrix()
	assert.Error(t, err)
}

func TestGameHistoryAssignsUUID(t *testing.T) {
	gameHistory := &GameHistory{Name: "forest", Username1: "alice", GameMode: "classic-solo"}
	require.NoError(t, gameHistory.BeforeCreate(&gorm.DB{}))
	assert.Len(t, gameHistory.ID, 36)

	// an explicit id survives the hook
	fixed := &GameHistory{ID: "fixed-id"}
	require.NoError(t, fixed.BeforeCreate(&gorm.DB{}))
	assert.Equal(t, "fixed-id", fixed.ID)
}
