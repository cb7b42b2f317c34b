package handlers

import (
	"Spotit/services/game"
	socketio_events "Spotit/services/socket_io/events"
	socketio_utils "Spotit/services/socket_io/utils"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Function to answer the main menu's "does a joinable game exist" question.
// Pure read over the registry: found/not-found goes to the requester only.
func HandleCheckGame(gameService *game.GameService, client *socket.Socket,
	username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		var data game.JoinRequest
		if len(args) < 1 || socketio_utils.DecodePayload(args[0], &data) != nil {
			client.Emit("error", gin.H{"error": "Invalid finder request"})
			return
		}

		gameRoom := gameService.FindGameRoom(data.GameName, data.GameMode)
		if gameRoom == nil {
			log.Printf("[FINDER] No game %s found", data.GameName)
			return
		}
		log.Printf("[FINDER] Game found for mode %s (%s)", data.GameMode, data.GameName)
		client.Emit(socketio_events.GameFound, gin.H{
			"gameName": data.GameName,
			"gameMode": data.GameMode,
		})
	}
}

// Function to answer the pre-lobby eligibility question: same lookup as a
// join, plus the self-join and duplicate-candidate rejections, without
// mutating anything.
func HandleCanJoinGame(gameService *game.GameService, client *socket.Socket,
	username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		var data game.JoinRequest
		if len(args) < 1 || socketio_utils.DecodePayload(args[0], &data) != nil {
			client.Emit("error", gin.H{"error": "Invalid finder request"})
			return
		}

		if gameService.CanJoinGame(data) != nil {
			log.Printf("[FINDER] %s can join the game", data.Username)
			client.Emit(socketio_events.CanJoinGame)
		} else {
			log.Printf("[FINDER] %s cannot join the game", data.Username)
			client.Emit(socketio_events.CannotJoinGame)
		}
	}
}
