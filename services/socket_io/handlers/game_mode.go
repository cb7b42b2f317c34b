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

// ValidatePayload carries a difference click.
type ValidatePayload struct {
	RoomID        string          `json:"roomId"`
	DifferencePos models.Vector2D `json:"differencePos"`
	Username      string          `json:"username"`
}

// ChangeTimePayload carries a signed timer adjustment in seconds.
type ChangeTimePayload struct {
	RoomID string `json:"roomId"`
	Time   int    `json:"time"`
}

// Function to validate a difference click. The verdict is broadcast to the
// whole room either way so both players see wrong guesses too; a classic
// room whose last difference was just found ends server-side immediately.
func HandleValidateDifference(gameService *game.GameService, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		var data ValidatePayload
		if len(args) < 1 || socketio_utils.DecodePayload(args[0], &data) != nil {
			client.Emit("error", gin.H{"error": "Invalid validate payload"})
			return
		}

		validated := gameService.ValidateDifference(data.RoomID, data.DifferencePos)
		sio.Sio_server.To(socket.Room(data.RoomID)).Emit(socketio_events.DifferenceValidated, gin.H{
			"validated":     validated,
			"differencePos": data.DifferencePos,
			"username":      data.Username,
		})

		if gameService.IsGameFinished(data.RoomID) {
			endGame(gameService, sio, models.EndGame{
				RoomID:       data.RoomID,
				Username:     data.Username,
				Winner:       true,
				GameFinished: true,
			})
		}
	}
}

// Function to terminate a room explicitly.
func HandleEndGame(gameService *game.GameService, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		var data models.EndGame
		if len(args) < 1 || socketio_utils.DecodePayload(args[0], &data) != nil {
			client.Emit("error", gin.H{"error": "Invalid end game payload"})
			return
		}
		endGame(gameService, sio, data)
	}
}

func endGame(gameService *game.GameService, sio *socketio_types.SocketServer, data models.EndGame) {
	gameRoom, ok := gameService.GetRoomSnapshot(data.RoomID)
	if !ok {
		return
	}
	log.Printf("[GAME] End of game: %s", gameRoom.UserGame.GameData.Name)
	sio.Sio_server.To(socket.Room(data.RoomID)).Emit(socketio_events.GameFinished)
	gameService.EndGame(data)
}

// Function to handle an abandonment of a started room, explicit or caused
// by a disconnect. Classic rooms survive for the remaining player; limited-
// time rooms migrate to the surviving participant's connection id.
func HandleAbandoned(gameService *game.GameService, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		var playerInfo PlayerInfo
		if len(args) < 1 || socketio_utils.DecodePayload(args[0], &playerInfo) != nil {
			client.Emit("error", gin.H{"error": "Invalid player info"})
			return
		}
		abandonGame(gameService, client, sio, playerInfo)
	}
}

func abandonGame(gameService *game.GameService, client *socket.Socket,
	sio *socketio_types.SocketServer, playerInfo PlayerInfo) {
	gameRoom, ok := gameService.GetRoomSnapshot(playerInfo.RoomID)
	if !ok {
		return
	}

	if gameRoom.GameMode == models.ClassicMode {
		solo := gameRoom.UserGame.Username2 == ""
		gameService.AbandonClassicMode(playerInfo.RoomID, playerInfo.Username)
		log.Printf("[GAME] %s abandoned classic mode game", playerInfo.Username)
		sio.Sio_server.To(socket.Room(playerInfo.RoomID)).Emit(socketio_events.Abandoned, gin.H{
			"gameRoom": gameRoom,
			"username": playerInfo.Username,
		})
		if solo {
			sio.Sio_server.Emit(socketio_events.GameDeleted, gin.H{
				"gameName": gameRoom.UserGame.GameData.Name,
				"gameMode": gameRoom.GameMode,
			})
		}
		return
	}

	// Limited-time: re-key the room under the surviving participant's own
	// connection id. Sockets are members of their id room by default, so
	// only the leaver has to leave the old channel.
	oldRoomID := playerInfo.RoomID
	newRoomID := oldRoomID
	survivor := survivingUsername(gameRoom, playerInfo.Username)
	if survivor != "" {
		if socketID, ok := sio.SocketID(survivor); ok {
			newRoomID = socketID
		}
	}
	if client != nil {
		client.Leave(socket.Room(oldRoomID))
	}
	gameService.AbandonLimitedTimeMode(oldRoomID, playerInfo.Username, newRoomID)
	log.Printf("[GAME] %s abandoned limited-time game, room %s -> %s",
		playerInfo.Username, oldRoomID, newRoomID)
	if migrated, ok := gameService.GetRoomSnapshot(newRoomID); ok {
		gameRoom = migrated
	}
	sio.Sio_server.To(socket.Room(newRoomID)).Emit(socketio_events.Abandoned, gin.H{
		"gameRoom": gameRoom,
		"username": playerInfo.Username,
	})
}

func survivingUsername(gameRoom models.GameRoom, leaving string) string {
	if gameRoom.UserGame.Username2 == "" {
		return ""
	}
	if gameRoom.UserGame.Username1 == leaving {
		return gameRoom.UserGame.Username2
	}
	return gameRoom.UserGame.Username1
}

// Function to apply a signed delta to a room's timer (hint penalties,
// bonuses). Clamping happens on the next tick.
func HandleChangeTime(gameService *game.GameService, client *socket.Socket,
	username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		var data ChangeTimePayload
		if len(args) < 1 || socketio_utils.DecodePayload(args[0], &data) != nil {
			client.Emit("error", gin.H{"error": "Invalid change time payload"})
			return
		}
		log.Printf("[GAME] Time changed by %d in room %s", data.Time, data.RoomID)
		gameService.ApplyTimeToTimer(data.RoomID, data.Time)
	}
}

// Function to chain a limited-time room onto its next board.
func HandleNextGame(gameService *game.GameService, client *socket.Socket,
	username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		var gameRoom models.GameRoom
		if len(args) < 1 || socketio_utils.DecodePayload(args[0], &gameRoom) != nil {
			client.Emit("error", gin.H{"error": "Invalid game room"})
			return
		}
		gameService.NextGame(&gameRoom)
	}
}

// HandleDisconnecting routes an unexpected disconnect to the right protocol
// path: lobby rooms go through abort/leave, started rooms through the
// abandonment logic.
func HandleDisconnecting(gameService *game.GameService, username string,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] %s disconnected", username)
		gameRoom, ok := gameService.FindRoomByUsername(username)
		if !ok {
			sio.RemoveConnection(username)
			return
		}

		if !gameRoom.Started() {
			if gameRoom.UserGame.Username1 == username {
				abortGameCreation(gameService, sio, gameRoom.RoomID)
			} else {
				leaveGame(gameService, sio, PlayerInfo{RoomID: gameRoom.RoomID, Username: username})
			}
		} else {
			client, _ := sio.GetConnection(username)
			abandonGame(gameService, client, sio, PlayerInfo{RoomID: gameRoom.RoomID, Username: username})
		}
		sio.RemoveConnection(username)
	}
}
