package game

import (
	game_constants "Spotit/constants/game"
	"Spotit/models"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classicRoom(roomID string, username string) *models.GameRoom {
	return &models.GameRoom{
		RoomID:   roomID,
		GameMode: models.ClassicMode,
		State:    models.StateLobby,
		UserGame: models.UserGame{
			Username1: username,
			GameData: models.GameData{
				Name:         "forest",
				NbDifference: 2,
				Difficulty:   "easy",
				DifferenceMatrix: [][]int{
					{-1, 1, -1},
					{-1, -1, 2},
				},
			},
		},
	}
}

func limitedRoom(roomID string, username string) *models.GameRoom {
	gameRoom := classicRoom(roomID, username)
	gameRoom.GameMode = models.LimitedTimeMode
	gameRoom.UserGame.Timer = 100
	return gameRoom
}

func joinRoom(t *testing.T, gs *GameService, username string) {
	t.Helper()
	_, ok := gs.JoinGame(JoinRequest{GameName: "forest", Username: username, GameMode: models.ClassicMode})
	require.True(t, ok)
}

func TestFindGameRoomClassicMatchesByName(t *testing.T) {
	gs := NewGameService(nil, nil)
	gs.SetGameRoom(classicRoom("room1", "alice"))

	found := gs.FindGameRoom("forest", models.ClassicMode)
	require.NotNil(t, found)
	assert.Equal(t, "room1", found.RoomID)

	assert.Nil(t, gs.FindGameRoom("desert", models.ClassicMode))
}

func TestFindGameRoomLimitedIgnoresName(t *testing.T) {
	gs := NewGameService(nil, nil)
	gs.SetGameRoom(limitedRoom("room1", "alice"))

	// any open limited-time room acts as a shared queue
	found := gs.FindGameRoom("whatever", models.LimitedTimeMode)
	require.NotNil(t, found)
	assert.Equal(t, "room1", found.RoomID)
}

func TestFindGameRoomIgnoresStartedRooms(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := classicRoom("room1", "alice")
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)

	assert.Nil(t, gs.FindGameRoom("forest", models.ClassicMode))
}

func TestJoinGameAppendsPotentialPlayer(t *testing.T) {
	gs := NewGameService(nil, nil)
	gs.SetGameRoom(classicRoom("room1", "alice"))

	gameRoom, ok := gs.JoinGame(JoinRequest{GameName: "forest", Username: "bob", GameMode: models.ClassicMode})
	require.True(t, ok)
	assert.Equal(t, []string{"bob"}, gameRoom.UserGame.PotentialPlayers)
}

func TestJoinGameRejectsSelfJoin(t *testing.T) {
	gs := NewGameService(nil, nil)
	gs.SetGameRoom(classicRoom("room1", "Alice"))

	// creator match is case-insensitive and must not mutate the lobby
	_, ok := gs.JoinGame(JoinRequest{GameName: "forest", Username: "alice", GameMode: models.ClassicMode})
	assert.False(t, ok)
	assert.Empty(t, gs.GetGameRoom("room1").UserGame.PotentialPlayers)
}

func TestJoinGameRejectsDuplicateCandidate(t *testing.T) {
	gs := NewGameService(nil, nil)
	gs.SetGameRoom(classicRoom("room1", "alice"))

	_, ok := gs.JoinGame(JoinRequest{GameName: "forest", Username: "bob", GameMode: models.ClassicMode})
	require.True(t, ok)
	_, ok = gs.JoinGame(JoinRequest{GameName: "forest", Username: "Bob", GameMode: models.ClassicMode})
	assert.False(t, ok)
	assert.Equal(t, []string{"bob"}, gs.GetGameRoom("room1").UserGame.PotentialPlayers)
}

func TestJoinGameRejectsWhenNoRoomExists(t *testing.T) {
	gs := NewGameService(nil, nil)
	_, ok := gs.JoinGame(JoinRequest{GameName: "forest", Username: "bob", GameMode: models.ClassicMode})
	assert.False(t, ok)
}

func TestCanJoinGameDoesNotMutate(t *testing.T) {
	gs := NewGameService(nil, nil)
	gs.SetGameRoom(classicRoom("room1", "alice"))

	require.NotNil(t, gs.CanJoinGame(JoinRequest{GameName: "forest", Username: "bob", GameMode: models.ClassicMode}))
	assert.Empty(t, gs.GetGameRoom("room1").UserGame.PotentialPlayers)
}

func TestPlayerAcceptedStartsRoom(t *testing.T) {
	gs := NewGameService(nil, nil)
	gs.SetGameRoom(classicRoom("room1", "alice"))
	joinRoom(t, gs, "bob")
	joinRoom(t, gs, "carol")

	gameRoom, ok := gs.PlayerAccepted("room1", "bob")
	require.True(t, ok)
	assert.Equal(t, "bob", gameRoom.UserGame.Username2)
	assert.Empty(t, gameRoom.UserGame.PotentialPlayers)
	assert.True(t, gameRoom.Started())

	// started rooms are invisible to matchmaking
	assert.Nil(t, gs.FindGameRoom("forest", models.ClassicMode))
}

func TestPlayerAcceptedOnActiveRoomLeavesSeatedPlayer(t *testing.T) {
	gs := NewGameService(nil, nil)
	gs.SetGameRoom(classicRoom("room1", "alice"))
	joinRoom(t, gs, "bob")

	_, ok := gs.PlayerAccepted("room1", "bob")
	require.True(t, ok)

	// a duplicate or late accept must not replace the seated player
	_, ok = gs.PlayerAccepted("room1", "carol")
	assert.False(t, ok)
	assert.Equal(t, "bob", gs.GetGameRoom("room1").UserGame.Username2)

	_, ok = gs.PlayerAccepted("ghost", "carol")
	assert.False(t, ok)
}

func TestPlayerRejectedRemovesCandidate(t *testing.T) {
	gs := NewGameService(nil, nil)
	gs.SetGameRoom(classicRoom("room1", "alice"))
	joinRoom(t, gs, "bob")
	joinRoom(t, gs, "carol")

	gameRoom, ok := gs.PlayerRejected("room1", "bob")
	require.True(t, ok)
	assert.Equal(t, []string{"carol"}, gameRoom.UserGame.PotentialPlayers)
	assert.False(t, gameRoom.Started())
}

func TestValidateDifference(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := classicRoom("room1", "alice")
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)

	assert.True(t, gs.ValidateDifference("room1", models.Vector2D{X: 1, Y: 0}))
	assert.Equal(t, 1, gameRoom.UserGame.NbDifferenceFound)

	// sentinel cell is a miss and does not count
	assert.False(t, gs.ValidateDifference("room1", models.Vector2D{X: 0, Y: 0}))
	assert.Equal(t, 1, gameRoom.UserGame.NbDifferenceFound)

	// out of bounds clicks are misses, not panics
	assert.False(t, gs.ValidateDifference("room1", models.Vector2D{X: 10, Y: 10}))
	assert.False(t, gs.ValidateDifference("room1", models.Vector2D{X: -1, Y: 0}))

	// unknown room no-ops
	assert.False(t, gs.ValidateDifference("ghost", models.Vector2D{X: 1, Y: 0}))
}

func TestValidateDifferenceNeverExceedsBoardCount(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := classicRoom("room1", "alice")
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)

	for i := 0; i < 5; i++ {
		gs.ValidateDifference("room1", models.Vector2D{X: 1, Y: 0})
		gs.ValidateDifference("room1", models.Vector2D{X: 2, Y: 1})
		assert.LessOrEqual(t, gameRoom.UserGame.NbDifferenceFound, gameRoom.UserGame.GameData.NbDifference)
	}
}

func TestIsGameFinished(t *testing.T) {
	gs := NewGameService(nil, nil)
	classic := classicRoom("room1", "alice")
	require.NoError(t, classic.TransitionTo(models.StateActive))
	gs.SetGameRoom(classic)

	assert.False(t, gs.IsGameFinished("room1"))
	classic.UserGame.NbDifferenceFound = classic.UserGame.GameData.NbDifference
	assert.True(t, gs.IsGameFinished("room1"))

	limited := limitedRoom("room2", "bob")
	require.NoError(t, limited.TransitionTo(models.StateActive))
	gs.SetGameRoom(limited)

	assert.False(t, gs.IsGameFinished("room2"))
	limited.UserGame.Timer = 0
	assert.True(t, gs.IsGameFinished("room2"))

	assert.False(t, gs.IsGameFinished("ghost"))
}

func TestApplyTimeToTimer(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := limitedRoom("room1", "alice")
	gs.SetGameRoom(gameRoom)

	gs.ApplyTimeToTimer("room1", 30)
	assert.Equal(t, 130, gameRoom.UserGame.Timer)
	gs.ApplyTimeToTimer("room1", -50)
	assert.Equal(t, 80, gameRoom.UserGame.Timer)

	// unknown room no-ops
	gs.ApplyTimeToTimer("ghost", 10)
}

func TestUpdateTimerClassicCountsUp(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := classicRoom("room1", "alice")
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)

	timer, gameMode, ok := gs.UpdateTimer("room1")
	require.True(t, ok)
	assert.Equal(t, 1, timer)
	assert.Equal(t, models.ClassicMode, gameMode)
}

func TestUpdateTimerLimitedClamps(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := limitedRoom("room1", "alice")
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)

	// a pile of bonuses cannot push the timer above the ceiling
	gameRoom.UserGame.Timer = 300
	timer, _, ok := gs.UpdateTimer("room1")
	require.True(t, ok)
	assert.Equal(t, game_constants.MAX_LIMITED_TIME, timer)

	// timer=1, one tick -> 0 and the game is over
	gameRoom.UserGame.Timer = 1
	timer, _, _ = gs.UpdateTimer("room1")
	assert.Equal(t, 0, timer)
	assert.True(t, gs.IsGameFinished("room1"))

	// clamped at the floor
	timer, _, _ = gs.UpdateTimer("room1")
	assert.Equal(t, 0, timer)
}

func TestUpdateTimerDeletedRoomNoops(t *testing.T) {
	gs := NewGameService(nil, nil)
	_, _, ok := gs.UpdateTimer("ghost")
	assert.False(t, ok)
	// a late tick must not recreate the room
	assert.Nil(t, gs.GetGameRoom("ghost"))
}

func TestDeleteGameRoomIsIdempotent(t *testing.T) {
	gs := NewGameService(nil, nil)
	gs.SetGameRoom(classicRoom("room1", "alice"))
	gs.DeleteGameRoom("room1")
	gs.DeleteGameRoom("room1")
	assert.Nil(t, gs.GetGameRoom("room1"))
}

func TestSaveGameHistoryModeLabels(t *testing.T) {
	gs := NewGameService(nil, nil)

	cases := []struct {
		gameMode  models.GameMode
		username2 string
		expected  string
	}{
		{models.ClassicMode, "", game_constants.CLASSIC_SOLO},
		{models.ClassicMode, "bob", game_constants.CLASSIC_1V1},
		{models.LimitedTimeMode, "", game_constants.LIMITED_SOLO},
		{models.LimitedTimeMode, "bob", game_constants.LIMITED_COOP},
	}

	for _, tc := range cases {
		gameRoom := classicRoom("room-"+tc.expected, "alice")
		gameRoom.GameMode = tc.gameMode
		gameRoom.UserGame.Username2 = tc.username2
		gs.SaveGameHistory(gameRoom)

		gameHistory := gs.GetGameHistory(gameRoom.RoomID)
		require.NotNil(t, gameHistory)
		assert.Equal(t, tc.expected, gameHistory.GameMode)
		assert.Equal(t, int64(0), gameHistory.Timer)
		assert.InDelta(t, time.Now().UnixMilli(), gameHistory.StartTime, 2000)
	}
}

func TestEndGameClassicWinner(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := classicRoom("room1", "alice")
	gameRoom.UserGame.Username2 = "bob"
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)
	gs.SaveGameHistory(gameRoom)
	gameHistory := gs.GetGameHistory("room1")

	gs.EndGame(models.EndGame{RoomID: "room1", Username: "alice", Winner: true, GameFinished: true})

	assert.Equal(t, "alice", gameHistory.Winner)
	assert.Greater(t, gameHistory.Timer, int64(-1))
	assert.Nil(t, gs.GetGameRoom("room1"))
	assert.Nil(t, gs.GetGameHistory("room1"))
}

func TestEndGameSoloNoWinnerSentinel(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := limitedRoom("room1", "alice")
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)
	gs.SaveGameHistory(gameRoom)
	gameHistory := gs.GetGameHistory("room1")

	gs.EndGame(models.EndGame{RoomID: "room1", GameFinished: true})

	assert.Equal(t, game_constants.NO_WINNER, gameHistory.Winner)
	assert.Nil(t, gs.GetGameRoom("room1"))
}

func TestEndGameUnknownRoomIsNoop(t *testing.T) {
	gs := NewGameService(nil, nil)
	gs.EndGame(models.EndGame{RoomID: "ghost", Username: "alice", Winner: true, GameFinished: true})
	assert.Nil(t, gs.GetGameRoom("ghost"))
}

func TestClassicGameEndToEnd(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := classicRoom("room1", "alice")
	gameRoom.UserGame.Username2 = "bob"
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)
	gs.SaveGameHistory(gameRoom)
	gameHistory := gs.GetGameHistory("room1")

	require.True(t, gs.ValidateDifference("room1", models.Vector2D{X: 1, Y: 0}))
	require.False(t, gs.IsGameFinished("room1"))
	require.True(t, gs.ValidateDifference("room1", models.Vector2D{X: 2, Y: 1}))
	require.True(t, gs.IsGameFinished("room1"))

	gs.EndGame(models.EndGame{RoomID: "room1", Username: "alice", Winner: true, GameFinished: true})
	assert.Equal(t, "alice", gameHistory.Winner)
	assert.Nil(t, gs.GetGameRoom("room1"))
}

func TestAbandonClassicTwoPlayerKeepsRoomAlive(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := classicRoom("room1", "alice")
	gameRoom.UserGame.Username2 = "bob"
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)
	gs.SaveGameHistory(gameRoom)

	gs.AbandonClassicMode("room1", "bob")

	// the remaining player can keep playing and claim victory
	require.NotNil(t, gs.GetGameRoom("room1"))
	gameHistory := gs.GetGameHistory("room1")
	require.NotNil(t, gameHistory)
	assert.Equal(t, []string{"bob"}, []string(gameHistory.Abandoned))
	assert.Empty(t, gameHistory.Winner)
}

func TestAbandonClassicSoloEndsImmediately(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := classicRoom("room1", "alice")
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)
	gs.SaveGameHistory(gameRoom)
	gameHistory := gs.GetGameHistory("room1")

	gs.AbandonClassicMode("room1", "alice")

	assert.Nil(t, gs.GetGameRoom("room1"))
	assert.Nil(t, gs.GetGameHistory("room1"))
	assert.Equal(t, []string{"alice"}, []string(gameHistory.Abandoned))
	assert.Equal(t, game_constants.NO_WINNER, gameHistory.Winner)
}

func TestHostMigration(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := limitedRoom("sock-a", "A")
	gameRoom.UserGame.Username2 = "B"
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)
	gs.SaveGameHistory(gameRoom)

	gs.AbandonLimitedTimeMode("sock-a", "A", "sock-b")

	assert.Nil(t, gs.GetGameRoom("sock-a"))
	migrated := gs.GetGameRoom("sock-b")
	require.NotNil(t, migrated)
	assert.Equal(t, "B", migrated.UserGame.Username1)
	assert.Empty(t, migrated.UserGame.Username2)
	assert.True(t, migrated.Started())

	// the old room id's history is merged into the new id
	assert.Nil(t, gs.GetGameHistory("sock-a"))
	gameHistory := gs.GetGameHistory("sock-b")
	require.NotNil(t, gameHistory)
	assert.Equal(t, []string{"A"}, []string(gameHistory.Abandoned))
}

func TestAbandonLimitedSecondPlayerLeaving(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := limitedRoom("sock-a", "A")
	gameRoom.UserGame.Username2 = "B"
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)
	gs.SaveGameHistory(gameRoom)

	// the host keeps the room, so it is re-keyed under its own id
	gs.AbandonLimitedTimeMode("sock-a", "B", "sock-a")

	kept := gs.GetGameRoom("sock-a")
	require.NotNil(t, kept)
	assert.Equal(t, "A", kept.UserGame.Username1)
	assert.Empty(t, kept.UserGame.Username2)
	gameHistory := gs.GetGameHistory("sock-a")
	require.NotNil(t, gameHistory)
	assert.Equal(t, []string{"B"}, []string(gameHistory.Abandoned))
}

func TestAbandonLimitedSoloClosesRoom(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := limitedRoom("sock-a", "A")
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)
	gs.SaveGameHistory(gameRoom)
	gameHistory := gs.GetGameHistory("sock-a")

	gs.AbandonLimitedTimeMode("sock-a", "A", "sock-a")

	assert.Nil(t, gs.GetGameRoom("sock-a"))
	assert.Nil(t, gs.GetGameHistory("sock-a"))
	assert.Equal(t, []string{"A"}, []string(gameHistory.Abandoned))
	assert.Equal(t, game_constants.NO_WINNER, gameHistory.Winner)

	// abandoning an unknown room no-ops
	gs.AbandonLimitedTimeMode("ghost", "A", "ghost")
}

func TestNextGameSwapsBoardOfLiveRoom(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := limitedRoom("room1", "alice")
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)

	// payloads round-trip through JSON, so the state arrives zeroed
	next := limitedRoom("room1", "alice")
	next.UserGame.GameData.Name = "desert"
	next.State = ""
	gs.NextGame(next)

	swapped := gs.GetGameRoom("room1")
	require.NotNil(t, swapped)
	assert.Equal(t, "desert", swapped.UserGame.GameData.Name)
	assert.True(t, swapped.Started())
	assert.Equal(t, []string{"room1"}, gs.GetStartedRoomIDs())
	assert.Nil(t, gs.FindGameRoom("desert", models.LimitedTimeMode))
}

func TestNextGameIgnoresClassicAndUnknownRooms(t *testing.T) {
	gs := NewGameService(nil, nil)

	gs.NextGame(classicRoom("room1", "alice"))
	assert.Nil(t, gs.GetGameRoom("room1"))

	// an unknown room id must not be registered out of thin air
	gs.NextGame(limitedRoom("room2", "bob"))
	assert.Nil(t, gs.GetGameRoom("room2"))
}

func TestFindRoomByUsername(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := classicRoom("room1", "alice")
	gameRoom.UserGame.PotentialPlayers = []string{"carol"}
	gs.SetGameRoom(gameRoom)

	found, ok := gs.FindRoomByUsername("alice")
	require.True(t, ok)
	assert.Equal(t, "room1", found.RoomID)
	_, ok = gs.FindRoomByUsername("carol")
	require.True(t, ok)
	_, ok = gs.FindRoomByUsername("mallory")
	assert.False(t, ok)
}

func TestRoomSnapshotIsDetachedFromLiveRoom(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := limitedRoom("room1", "alice")
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)

	snapshot, ok := gs.GetRoomSnapshot("room1")
	require.True(t, ok)

	gs.UpdateTimer("room1")
	gameRoom.UserGame.PotentialPlayers = append(gameRoom.UserGame.PotentialPlayers, "bob")

	assert.Equal(t, 100, snapshot.UserGame.Timer)
	assert.Empty(t, snapshot.UserGame.PotentialPlayers)

	_, ok = gs.GetRoomSnapshot("ghost")
	assert.False(t, ok)
}

func TestRoomSnapshotSafeToSerializeDuringTicks(t *testing.T) {
	gs := NewGameService(nil, nil)
	gameRoom := limitedRoom("room1", "alice")
	require.NoError(t, gameRoom.TransitionTo(models.StateActive))
	gs.SetGameRoom(gameRoom)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			gs.UpdateTimer("room1")
			gs.ApplyTimeToTimer("room1", 1)
		}
	}()
	for i := 0; i < 200; i++ {
		snapshot, ok := gs.GetRoomSnapshot("room1")
		require.True(t, ok)
		_, err := json.Marshal(snapshot)
		require.NoError(t, err)
	}
	<-done
}

func TestGetStartedRoomIDs(t *testing.T) {
	gs := NewGameService(nil, nil)
	lobby := classicRoom("room1", "alice")
	started := classicRoom("room2", "bob")
	require.NoError(t, started.TransitionTo(models.StateActive))
	gs.SetGameRoom(lobby)
	gs.SetGameRoom(started)

	ids := gs.GetStartedRoomIDs()
	assert.Equal(t, []string{"room2"}, ids)
}
