package handlers

import (
	game_constants "Spotit/constants/game"
	"Spotit/models"
	"Spotit/services/game"
	socketio_events "Spotit/services/socket_io/events"
	socketio_types "Spotit/services/socket_io/types"
	"time"

	"github.com/zishang520/socket.io/v2/socket"
)

// TimerLoop owns the periodic tick that advances every started room's
// timer. It runs fine with zero started rooms and stops cleanly when the
// server shuts down. time.Ticker drops ticks when the loop falls behind,
// so a late tick is skipped instead of compounded.
type TimerLoop struct {
	stop chan struct{}
}

// StartTimerLoop launches the ticking goroutine.
func StartTimerLoop(gameService *game.GameService, sio *socketio_types.SocketServer) *TimerLoop {
	loop := &TimerLoop{stop: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(game_constants.DELAY_BETWEEN_EMISSIONS)
		defer ticker.Stop()
		for {
			select {
			case <-loop.stop:
				return
			case <-ticker.C:
				EmitTime(gameService, sio)
			}
		}
	}()
	return loop
}

// Stop cancels the loop. A room deleted between ticks simply stops showing
// up in the snapshot; in-flight updates on deleted rooms no-op.
func (tl *TimerLoop) Stop() {
	close(tl.stop)
}

// EmitTime advances and broadcasts the timer of every started room. A
// limited-time room that just ran out of time is terminated server-side.
func EmitTime(gameService *game.GameService, sio *socketio_types.SocketServer) {
	for _, roomID := range gameService.GetStartedRoomIDs() {
		timer, gameMode, ok := gameService.UpdateTimer(roomID)
		if !ok {
			continue
		}
		sio.Sio_server.To(socket.Room(roomID)).Emit(socketio_events.Timer, timer)

		if gameMode == models.LimitedTimeMode && timer <= 0 {
			endGame(gameService, sio, models.EndGame{
				RoomID:       roomID,
				GameFinished: true,
			})
		}
	}
}
