package socket_io

import (
	"Spotit/services/game"
	socketio_events "Spotit/services/socket_io/events"
	"Spotit/services/socket_io/handlers"
	socketio_types "Spotit/services/socket_io/types"
	socketio_utils "Spotit/services/socket_io/utils"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// Start mounts the socket.io server on the gin router and wires every game
// event to its handler. All session orchestration flows through here: the
// REST surface only serves read-only collaterals.
func (sio *MySocketServer) Start(router *gin.Engine, gameService *game.GameService) *handlers.TimerLoop {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.UserConnections = make(map[string]*socket.Socket)

	server := (*socketio_types.SocketServer)(sio)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		username, err := socketio_utils.GetUsernameFromClient(client)
		if err != nil {
			return
		}

		server.AddConnection(username, client)
		log.Printf("[CONNECT] User %s connected with socket id %s", username, client.Id())

		// Waiting room channel: lobby creation and candidate resolution
		client.On(socketio_events.CreateGame, handlers.HandleCreateGame(gameService, client, username, server))
		client.On(socketio_events.Start, handlers.HandleStartGame(gameService, client, username, server))
		client.On(socketio_events.AskingToJoinGame, handlers.HandleJoinGame(gameService, client, username, server))
		client.On(socketio_events.AbortGameCreation, handlers.HandleAbortGameCreation(gameService, client, username, server))
		client.On(socketio_events.AcceptPlayer, handlers.HandleAcceptPlayer(gameService, client, username, server))
		client.On(socketio_events.RejectPlayer, handlers.HandleRejectPlayer(gameService, client, username, server))
		client.On(socketio_events.LeaveGame, handlers.HandleLeaveGame(gameService, client, username, server))

		// Game finder channel: read-only existence/eligibility queries
		client.On(socketio_events.CheckGame, handlers.HandleCheckGame(gameService, client, username))
		client.On(socketio_events.CanJoinGame, handlers.HandleCanJoinGame(gameService, client, username))

		// Game mode channel: the running session
		client.On(socketio_events.ValidateDifference, handlers.HandleValidateDifference(gameService, client, username, server))
		client.On(socketio_events.EndGame, handlers.HandleEndGame(gameService, client, username, server))
		client.On(socketio_events.Abandoned, handlers.HandleAbandoned(gameService, client, username, server))
		client.On(socketio_events.ChangeTime, handlers.HandleChangeTime(gameService, client, username))
		client.On(socketio_events.NextGame, handlers.HandleNextGame(gameService, client, username))

		client.On("disconnecting", handlers.HandleDisconnecting(gameService, username, server))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	// Periodic tick that drives every started room's timer
	timerLoop := handlers.StartTimerLoop(gameService, server)

	SignalC := make(chan os.Signal, 1)
	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				timerLoop.Stop()
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	log.Println("Socket server started")
	return timerLoop
}

// Close shuts the socket server down.
func (sio *MySocketServer) Close() {
	if sio.Sio_server != nil {
		sio.Sio_server.Close(nil)
	}
}
