package game

import (
	game_constants "Spotit/constants/game"
	"Spotit/models"
	postgres_models "Spotit/models/postgres"
	"Spotit/services/history"
	"Spotit/services/redis"
	"log"
	"strings"
	"sync"
	"time"
)

// JoinRequest is the payload of a lobby join attempt.
type JoinRequest struct {
	GameName string          `json:"gameName"`
	Username string          `json:"username"`
	GameMode models.GameMode `json:"gameMode"`
}

// GameService owns the in-memory registries of active game rooms and their
// live histories. It is the only component that mutates them; every public
// operation is serialized behind the mutex. Nothing is persisted until a
// room closes.
type GameService struct {
	mu          sync.RWMutex
	gameRooms   map[string]*models.GameRoom
	gameHistory map[string]*postgres_models.GameHistory

	historyService *history.HistoryService
	redisClient    *redis.RedisClient
}

// NewGameService creates the registry. historyService receives each closed
// history exactly once; redisClient is the best-times notifier and may be
// nil in tests.
func NewGameService(historyService *history.HistoryService, redisClient *redis.RedisClient) *GameService {
	return &GameService{
		gameRooms:      make(map[string]*models.GameRoom),
		gameHistory:    make(map[string]*postgres_models.GameHistory),
		historyService: historyService,
		redisClient:    redisClient,
	}
}

// ---------------------------------------------------------------
// Room registry
// ---------------------------------------------------------------

// GetGameRoom returns the room registered under roomID, or nil.
func (gs *GameService) GetGameRoom(roomID string) *models.GameRoom {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.gameRooms[roomID]
}

// GetRoomSnapshot returns a value copy of a room taken under the lock.
// Broadcast fan-out serializes payloads outside the lock, concurrently with
// timer ticks and other handlers mutating the live room, so everything that
// gets emitted or read in a handler goes through a snapshot.
func (gs *GameService) GetRoomSnapshot(roomID string) (models.GameRoom, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	gameRoom := gs.gameRooms[roomID]
	if gameRoom == nil {
		return models.GameRoom{}, false
	}
	return snapshotLocked(gameRoom), true
}

func snapshotLocked(gameRoom *models.GameRoom) models.GameRoom {
	snapshot := *gameRoom
	snapshot.UserGame.PotentialPlayers = append([]string(nil), gameRoom.UserGame.PotentialPlayers...)
	return snapshot
}

// FindGameRoom returns the first not-started room matching the request:
// name+mode for classic mode, mode only for limited-time (any open
// limited-time room acts as a shared queue). Started rooms are invisible.
func (gs *GameService) FindGameRoom(gameName string, gameMode models.GameMode) *models.GameRoom {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.findGameRoomLocked(gameName, gameMode)
}

func (gs *GameService) findGameRoomLocked(gameName string, gameMode models.GameMode) *models.GameRoom {
	for _, gameRoom := range gs.gameRooms {
		if gameRoom.GameMode != gameMode || gameRoom.Started() {
			continue
		}
		if gameMode == models.ClassicMode && gameRoom.UserGame.GameData.Name != gameName {
			continue
		}
		return gameRoom
	}
	return nil
}

// SetGameRoom registers or replaces a room under its own id.
func (gs *GameService) SetGameRoom(gameRoom *models.GameRoom) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.gameRooms[gameRoom.RoomID] = gameRoom
}

// DeleteGameRoom removes a room from the live registry. Deleting an unknown
// id is a no-op.
func (gs *GameService) DeleteGameRoom(roomID string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	delete(gs.gameRooms, roomID)
}

// GetStartedRoomIDs snapshots the ids of every started room, for the timer
// loop. The snapshot keeps the tick fan-out independent from registry
// mutation happening in between.
func (gs *GameService) GetStartedRoomIDs() []string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	ids := make([]string, 0, len(gs.gameRooms))
	for id, gameRoom := range gs.gameRooms {
		if gameRoom.Started() {
			ids = append(ids, id)
		}
	}
	return ids
}

// FindRoomByUsername returns a snapshot of the room a user belongs to,
// whether as a participant or as a lobby candidate. Disconnect handling uses
// this to route the departure to the right protocol path.
func (gs *GameService) FindRoomByUsername(username string) (models.GameRoom, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	for _, gameRoom := range gs.gameRooms {
		if gameRoom.UserGame.Username1 == username || gameRoom.UserGame.Username2 == username {
			return snapshotLocked(gameRoom), true
		}
		for _, player := range gameRoom.UserGame.PotentialPlayers {
			if player == username {
				return snapshotLocked(gameRoom), true
			}
		}
	}
	return models.GameRoom{}, false
}

// GetGameHistory returns the live history of a room, or nil.
func (gs *GameService) GetGameHistory(roomID string) *postgres_models.GameHistory {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.gameHistory[roomID]
}

func (gs *GameService) SetGameHistory(roomID string, gameHistory *postgres_models.GameHistory) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.gameHistory[roomID] = gameHistory
}

func (gs *GameService) DeleteGameHistory(roomID string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	delete(gs.gameHistory, roomID)
}

// ---------------------------------------------------------------
// Lobby protocol
// ---------------------------------------------------------------

// InitNewRoom registers a freshly created room under the creator's
// connection id. The caller joins the socket to the room afterwards.
func (gs *GameService) InitNewRoom(socketID string, gameRoom *models.GameRoom) {
	gameRoom.RoomID = socketID
	gs.SetGameRoom(gameRoom)
}

// JoinGame appends the requester to the potential players of a joinable
// room and returns a snapshot of it, or ok=false when no room matches or
// the lobby invariants reject the join. No state is mutated on rejection.
func (gs *GameService) JoinGame(data JoinRequest) (models.GameRoom, bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gameRoom := gs.canJoinGameLocked(data)
	if gameRoom == nil {
		return models.GameRoom{}, false
	}
	gameRoom.UserGame.PotentialPlayers = append(gameRoom.UserGame.PotentialPlayers, data.Username)
	return snapshotLocked(gameRoom), true
}

// CanJoinGame is the read-only eligibility query used by the game finder:
// same lookup as JoinGame, without the mutation.
func (gs *GameService) CanJoinGame(data JoinRequest) *models.GameRoom {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.canJoinGameLocked(data)
}

func (gs *GameService) canJoinGameLocked(data JoinRequest) *models.GameRoom {
	gameRoom := gs.findGameRoomLocked(data.GameName, data.GameMode)
	if gameRoom == nil {
		return nil
	}
	if strings.EqualFold(gameRoom.UserGame.Username1, data.Username) {
		return nil
	}
	for _, player := range gameRoom.UserGame.PotentialPlayers {
		if strings.EqualFold(player, data.Username) {
			return nil
		}
	}
	return gameRoom
}

// PlayerAccepted resolves a lobby candidate: clears the waiting list, seats
// the accepted player as second participant and starts the room. Everyone
// else subscribed to the room self-detects rejection by username mismatch.
// The state transition is validated before anything is touched, so a
// duplicate or late accept on an already-active room leaves the seated
// player in place.
func (gs *GameService) PlayerAccepted(roomID string, username string) (models.GameRoom, bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gameRoom := gs.gameRooms[roomID]
	if gameRoom == nil {
		return models.GameRoom{}, false
	}
	if err := gameRoom.TransitionTo(models.StateActive); err != nil {
		log.Printf("[LOBBY-ERROR] Accepting %s in room %s: %v", username, roomID, err)
		return models.GameRoom{}, false
	}
	gameRoom.UserGame.PotentialPlayers = []string{}
	gameRoom.UserGame.Username2 = username
	return snapshotLocked(gameRoom), true
}

// PlayerRejected removes the candidate from the waiting list.
func (gs *GameService) PlayerRejected(roomID string, username string) (models.GameRoom, bool) {
	return gs.removePotentialPlayer(roomID, username)
}

// LeaveGame removes a candidate who gave up waiting before acceptance.
func (gs *GameService) LeaveGame(roomID string, username string) (models.GameRoom, bool) {
	return gs.removePotentialPlayer(roomID, username)
}

func (gs *GameService) removePotentialPlayer(roomID string, username string) (models.GameRoom, bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gameRoom := gs.gameRooms[roomID]
	if gameRoom == nil {
		return models.GameRoom{}, false
	}
	kept := gameRoom.UserGame.PotentialPlayers[:0]
	for _, player := range gameRoom.UserGame.PotentialPlayers {
		if player != username {
			kept = append(kept, player)
		}
	}
	gameRoom.UserGame.PotentialPlayers = kept
	return snapshotLocked(gameRoom), true
}

// ---------------------------------------------------------------
// History recorder
// ---------------------------------------------------------------

// SaveGameHistory creates the live history stub for a room at launch time.
// It is finalized and persisted once, when the room closes.
func (gs *GameService) SaveGameHistory(gameRoom *models.GameRoom) {
	newGameHistory := &postgres_models.GameHistory{
		Name:      gameRoom.UserGame.GameData.Name,
		Username1: gameRoom.UserGame.Username1,
		Username2: gameRoom.UserGame.Username2,
		StartTime: time.Now().UnixMilli(),
		Timer:     0,
		GameMode:  historyMode(gameRoom),
	}
	gs.SetGameHistory(gameRoom.RoomID, newGameHistory)
}

func historyMode(gameRoom *models.GameRoom) string {
	if gameRoom.GameMode == models.ClassicMode {
		if gameRoom.UserGame.Username2 != "" {
			return game_constants.CLASSIC_1V1
		}
		return game_constants.CLASSIC_SOLO
	}
	if gameRoom.UserGame.Username2 != "" {
		return game_constants.LIMITED_COOP
	}
	return game_constants.LIMITED_SOLO
}

func (gs *GameService) updateGameHistoryLocked(endGame models.EndGame) *postgres_models.GameHistory {
	gameHistory := gs.gameHistory[endGame.RoomID]
	if gameHistory == nil {
		return nil
	}
	gameHistory.Timer = time.Now().UnixMilli() - gameHistory.StartTime
	if endGame.GameFinished {
		if endGame.Winner {
			gameHistory.Winner = endGame.Username
		} else if gameHistory.Username2 == "" {
			gameHistory.Winner = game_constants.NO_WINNER
		}
	} else {
		gameHistory.Abandoned = append(gameHistory.Abandoned, endGame.Username)
	}
	return gameHistory
}

// ---------------------------------------------------------------
// Session state machine
// ---------------------------------------------------------------

// ValidateDifference looks up the clicked cell of the difference matrix.
// Any non-sentinel value is a hit and bumps the found counter, which never
// exceeds the board's difference count.
func (gs *GameService) ValidateDifference(roomID string, differencePos models.Vector2D) bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gameRoom := gs.gameRooms[roomID]
	if gameRoom == nil {
		return false
	}
	matrix := gameRoom.UserGame.GameData.DifferenceMatrix
	if differencePos.Y < 0 || differencePos.Y >= len(matrix) {
		return false
	}
	row := matrix[differencePos.Y]
	if differencePos.X < 0 || differencePos.X >= len(row) {
		return false
	}
	validated := row[differencePos.X] != game_constants.EMPTY_PIXEL_VALUE
	if validated && gameRoom.UserGame.NbDifferenceFound < gameRoom.UserGame.GameData.NbDifference {
		gameRoom.UserGame.NbDifferenceFound++
	}
	return validated
}

// IsGameFinished reports completion: all differences found for classic
// mode, timer exhausted for limited-time mode.
func (gs *GameService) IsGameFinished(roomID string) bool {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	gameRoom := gs.gameRooms[roomID]
	if gameRoom == nil {
		return false
	}
	if gameRoom.GameMode == models.ClassicMode {
		return gameRoom.UserGame.NbDifferenceFound == gameRoom.UserGame.GameData.NbDifference
	}
	return gameRoom.UserGame.Timer <= 0
}

// ApplyTimeToTimer adds a signed delta to the room timer: hint penalties
// subtract, bonuses add. Clamping happens on the next periodic tick.
func (gs *GameService) ApplyTimeToTimer(roomID string, delta int) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gameRoom := gs.gameRooms[roomID]
	if gameRoom == nil {
		return
	}
	gameRoom.UserGame.Timer += delta
}

// UpdateTimer advances a room's timer by one tick: classic counts up,
// limited-time counts down and is clamped to [0, MAX_LIMITED_TIME]. It
// returns the new value, or ok=false when the room no longer exists (a
// late tick must not recreate it).
func (gs *GameService) UpdateTimer(roomID string) (timer int, gameMode models.GameMode, ok bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gameRoom := gs.gameRooms[roomID]
	if gameRoom == nil || !gameRoom.Started() {
		return 0, "", false
	}
	if gameRoom.GameMode == models.ClassicMode {
		gameRoom.UserGame.Timer++
	} else {
		gameRoom.UserGame.Timer--
		if gameRoom.UserGame.Timer > game_constants.MAX_LIMITED_TIME {
			gameRoom.UserGame.Timer = game_constants.MAX_LIMITED_TIME
		} else if gameRoom.UserGame.Timer < 0 {
			gameRoom.UserGame.Timer = 0
		}
	}
	return gameRoom.UserGame.Timer, gameRoom.GameMode, true
}

// NextGame swaps in the next board of a limited-time room. The room's life
// cycle is owned server-side: only a registered, started room is replaced,
// and it keeps its current state rather than whatever the payload carried.
// Classic rooms play a single fixed board, so this is a no-op for them.
func (gs *GameService) NextGame(gameRoom *models.GameRoom) {
	if gameRoom.GameMode == models.ClassicMode {
		return
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()
	existing := gs.gameRooms[gameRoom.RoomID]
	if existing == nil || !existing.Started() {
		return
	}
	gameRoom.State = existing.State
	gs.gameRooms[gameRoom.RoomID] = gameRoom
}

// EndGame finalizes the room's history, hands it to the persistence
// collaborator and removes the room from the live registry. Unknown room
// ids no-op, which makes duplicate terminations harmless.
func (gs *GameService) EndGame(endGame models.EndGame) {
	gs.mu.Lock()
	gameRoom := gs.gameRooms[endGame.RoomID]
	gameHistory := gs.updateGameHistoryLocked(endGame)
	if gameRoom != nil {
		if err := gameRoom.TransitionTo(models.StateClosed); err != nil {
			log.Printf("[GAME-ERROR] Closing room %s: %v", endGame.RoomID, err)
		}
	}
	delete(gs.gameRooms, endGame.RoomID)
	delete(gs.gameHistory, endGame.RoomID)
	gs.mu.Unlock()

	if gameHistory == nil {
		return
	}
	gs.persistHistory(gameHistory)
	if endGame.GameFinished && endGame.Winner && gameRoom != nil && gameRoom.GameMode == models.ClassicMode {
		gs.notifyBestTime(gameHistory)
	}
}

// persistHistory hands the record off asynchronously so database latency
// never stalls timer ticks or difference validation for other rooms.
func (gs *GameService) persistHistory(gameHistory *postgres_models.GameHistory) {
	if gs.historyService == nil {
		return
	}
	go func() {
		// Failures are logged inside the service; the room is gone from the
		// registry regardless of the storage outcome.
		_ = gs.historyService.SaveGameHistory(gameHistory)
	}()
}

func (gs *GameService) notifyBestTime(gameHistory *postgres_models.GameHistory) {
	if gs.redisClient == nil || gameHistory.Winner == "" || gameHistory.Winner == game_constants.NO_WINNER {
		return
	}
	go func() {
		if err := gs.redisClient.SaveBestTime(gameHistory.Name, gameHistory.GameMode, gameHistory.Winner, gameHistory.Timer); err != nil {
			log.Printf("[BESTTIME-ERROR] %v", err)
		}
	}()
}

// ---------------------------------------------------------------
// Abandonment & host migration
// ---------------------------------------------------------------

// AbandonClassicMode records an abandonment in classic mode. With a second
// participant the room stays alive for the remaining player; solo, the game
// ends immediately and the history is persisted.
func (gs *GameService) AbandonClassicMode(roomID string, username string) {
	gs.mu.Lock()
	gameHistory := gs.gameHistory[roomID]
	var toPersist *postgres_models.GameHistory
	if gameHistory != nil {
		gameHistory.Abandoned = append(gameHistory.Abandoned, username)
		if gameHistory.Username2 == "" {
			gameHistory.Timer = time.Now().UnixMilli() - gameHistory.StartTime
			gameHistory.Winner = game_constants.NO_WINNER
			toPersist = gameHistory
		}
	}
	if toPersist != nil {
		delete(gs.gameRooms, roomID)
		delete(gs.gameHistory, roomID)
	}
	gs.mu.Unlock()

	if toPersist != nil {
		gs.persistHistory(toPersist)
	}
}

// AbandonLimitedTimeMode reconciles a departure from a limited-time room.
// When a second participant remains the room migrates to the survivor:
// username2 is promoted if needed, the room is re-keyed under newRoomID and
// the old room id's history is carried forward under the new id. With
// nobody left, the history is finalized and persisted.
func (gs *GameService) AbandonLimitedTimeMode(oldRoomID string, username string, newRoomID string) {
	gs.mu.Lock()
	gameRoom := gs.gameRooms[oldRoomID]
	if gameRoom == nil {
		gs.mu.Unlock()
		return
	}
	hadPartner := gameRoom.UserGame.Username2 != ""

	var toPersist *postgres_models.GameHistory
	gameHistory := gs.gameHistory[oldRoomID]
	if gameHistory != nil {
		gameHistory.Abandoned = append(gameHistory.Abandoned, username)
		if hadPartner {
			delete(gs.gameHistory, oldRoomID)
			gs.gameHistory[newRoomID] = gameHistory
		} else {
			gameHistory.Timer = time.Now().UnixMilli() - gameHistory.StartTime
			gameHistory.Winner = game_constants.NO_WINNER
			toPersist = gameHistory
			delete(gs.gameHistory, oldRoomID)
		}
	}

	if gameRoom.UserGame.Username1 == username && hadPartner {
		gameRoom.UserGame.Username1 = gameRoom.UserGame.Username2
	}
	gameRoom.UserGame.Username2 = ""

	delete(gs.gameRooms, oldRoomID)
	if hadPartner {
		gameRoom.RoomID = newRoomID
		gs.gameRooms[newRoomID] = gameRoom
	}
	gs.mu.Unlock()

	if toPersist != nil {
		gs.persistHistory(toPersist)
	}
}
