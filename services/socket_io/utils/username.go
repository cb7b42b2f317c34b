package socketio_utils

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// GetUsernameFromClient extracts the username from the handshake auth data.
// There is no authentication in this game: the username a client declares
// is its identity for the whole connection.
func GetUsernameFromClient(client *socket.Socket) (string, error) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		log.Println("No auth data provided in handshake!")
		client.Emit("error", gin.H{"error": "Missing handshake auth data"})
		return "", errors.New("handshake auth data missing")
	}

	username, exists := authData["username"].(string)
	if !exists || username == "" {
		client.Emit("error", gin.H{"error": "Missing username"})
		return "", errors.New("username not found in handshake")
	}

	return username, nil
}
