package handlers

import (
	"Spotit/models"
	"Spotit/services/game"
	socketio_events "Spotit/services/socket_io/events"
	socketio_types "Spotit/services/socket_io/types"
	socketio_utils "Spotit/services/socket_io/utils"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// PlayerInfo addresses a lobby candidate inside a specific room.
type PlayerInfo struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

// Function to handle the creation of a new game room. The room is registered
// under the creator's connection id, the creator's socket joins the room's
// broadcast channel and, while the room is still a lobby, browsing clients
// are advertised that a joinable game exists.
func HandleCreateGame(gameService *game.GameService, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			log.Printf("[LOBBY-ERROR] Missing game room payload from %s", username)
			client.Emit("error", gin.H{"error": "Missing game room"})
			return
		}

		var gameRoom models.GameRoom
		if err := socketio_utils.DecodePayload(args[0], &gameRoom); err != nil {
			log.Printf("[LOBBY-ERROR] Invalid game room from %s: %v", username, err)
			client.Emit("error", gin.H{"error": "Invalid game room"})
			return
		}
		if gameRoom.State == "" {
			gameRoom.State = models.StateLobby
		}

		gameService.InitNewRoom(string(client.Id()), &gameRoom)
		client.Join(socket.Room(gameRoom.RoomID))
		log.Printf("[LOBBY] %s created the game: %s", username, gameRoom.UserGame.GameData.Name)

		sio.Sio_server.To(socket.Room(gameRoom.RoomID)).Emit(socketio_events.GameCreated, gameRoom.RoomID)
		if !gameRoom.Started() {
			sio.Sio_server.Emit(socketio_events.GameFound, gin.H{
				"gameName": gameRoom.UserGame.GameData.Name,
				"gameMode": gameRoom.GameMode,
			})
		}
	}
}

// Function to launch a room once the lobby is resolved. Solo rooms never go
// through acceptance, so the history stub is created here for them; it will
// be finalized when the room closes.
func HandleStartGame(gameService *game.GameService, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := socketio_utils.StringArg(args, 0)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing room id"})
			return
		}
		gameRoom, ok := gameService.GetRoomSnapshot(roomID)
		if !ok {
			return
		}
		if gameService.GetGameHistory(roomID) == nil {
			gameService.SaveGameHistory(&gameRoom)
		}
		log.Printf("[LOBBY] Launching the game: %s", gameRoom.UserGame.GameData.Name)
		sio.Sio_server.To(socket.Room(roomID)).Emit(socketio_events.Started)
	}
}

// Function to handle a lobby join attempt. On success the requester becomes
// a potential player and its socket subscribes to the room's broadcast
// channel; limited-time rooms skip the accept step entirely and seat the
// joiner immediately.
func HandleJoinGame(gameService *game.GameService, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			client.Emit("error", gin.H{"error": "Missing join request"})
			return
		}
		var data game.JoinRequest
		if err := socketio_utils.DecodePayload(args[0], &data); err != nil {
			log.Printf("[LOBBY-ERROR] Invalid join request from %s: %v", username, err)
			client.Emit("error", gin.H{"error": "Invalid join request"})
			return
		}

		gameRoom, ok := gameService.JoinGame(data)
		if !ok {
			log.Printf("[LOBBY] Game %s not found for %s", data.GameName, data.Username)
			sio.Sio_server.Emit(socketio_events.GameInfo, nil)
			return
		}

		client.Join(socket.Room(gameRoom.RoomID))
		log.Printf("[LOBBY] %s joined the game: %s", data.Username, gameRoom.UserGame.GameData.Name)

		if data.GameMode == models.LimitedTimeMode {
			acceptPlayer(gameService, sio, PlayerInfo{RoomID: gameRoom.RoomID, Username: data.Username})
		}
		sio.Sio_server.Emit(socketio_events.GameInfo, gameRoom)
	}
}

// Function to tear a lobby down when its creator gives up before accepting
// anyone. Aborting an already-deleted room is a no-op.
func HandleAbortGameCreation(gameService *game.GameService, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := socketio_utils.StringArg(args, 0)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing room id"})
			return
		}
		abortGameCreation(gameService, sio, roomID)
	}
}

func abortGameCreation(gameService *game.GameService, sio *socketio_types.SocketServer, roomID string) {
	gameRoom, ok := gameService.GetRoomSnapshot(roomID)
	if !ok {
		return
	}
	log.Printf("[LOBBY] Game creation aborted: %s", gameRoom.UserGame.GameData.Name)
	gameService.DeleteGameRoom(roomID)
	gameService.DeleteGameHistory(roomID)
	sio.Sio_server.Emit(socketio_events.GameDeleted, gin.H{
		"gameName": gameRoom.UserGame.GameData.Name,
		"gameMode": gameRoom.GameMode,
	})
	sio.Sio_server.Emit(socketio_events.GameCanceled, gameRoom)
}

// Function to resolve a candidate positively. The finalized room is
// broadcast to every subscriber; candidates that were not chosen self-detect
// the rejection by username mismatch.
func HandleAcceptPlayer(gameService *game.GameService, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		var playerInfo PlayerInfo
		if len(args) < 1 || socketio_utils.DecodePayload(args[0], &playerInfo) != nil {
			client.Emit("error", gin.H{"error": "Invalid player info"})
			return
		}
		acceptPlayer(gameService, sio, playerInfo)
	}
}

func acceptPlayer(gameService *game.GameService, sio *socketio_types.SocketServer, playerInfo PlayerInfo) {
	gameRoom, ok := gameService.PlayerAccepted(playerInfo.RoomID, playerInfo.Username)
	if !ok {
		return
	}
	gameService.SaveGameHistory(&gameRoom)
	log.Printf("[LOBBY] %s accepted in game: %s", playerInfo.Username, gameRoom.UserGame.GameData.Name)
	sio.Sio_server.To(socket.Room(gameRoom.RoomID)).Emit(socketio_events.PlayerAccepted, gameRoom)
}

// Function to resolve a candidate negatively: the candidate is removed from
// the waiting list and the updated room is broadcast so the rejected client
// can react.
func HandleRejectPlayer(gameService *game.GameService, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		var playerInfo PlayerInfo
		if len(args) < 1 || socketio_utils.DecodePayload(args[0], &playerInfo) != nil {
			client.Emit("error", gin.H{"error": "Invalid player info"})
			return
		}
		gameRoom, ok := gameService.PlayerRejected(playerInfo.RoomID, playerInfo.Username)
		if !ok {
			return
		}
		log.Printf("[LOBBY] %s rejected from game: %s", playerInfo.Username, gameRoom.UserGame.GameData.Name)
		sio.Sio_server.To(socket.Room(gameRoom.RoomID)).Emit(socketio_events.PlayerRejected, gameRoom)
	}
}

// Function to handle a candidate leaving the waiting list on their own.
func HandleLeaveGame(gameService *game.GameService, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		var playerInfo PlayerInfo
		if len(args) < 1 || socketio_utils.DecodePayload(args[0], &playerInfo) != nil {
			client.Emit("error", gin.H{"error": "Invalid player info"})
			return
		}
		leaveGame(gameService, sio, playerInfo)
	}
}

func leaveGame(gameService *game.GameService, sio *socketio_types.SocketServer, playerInfo PlayerInfo) {
	gameRoom, ok := gameService.LeaveGame(playerInfo.RoomID, playerInfo.Username)
	if !ok {
		return
	}
	log.Printf("[LOBBY] %s left the game: %s", playerInfo.Username, gameRoom.UserGame.GameData.Name)
	sio.Sio_server.To(socket.Room(gameRoom.RoomID)).Emit(socketio_events.GameInfo, gameRoom)
}
