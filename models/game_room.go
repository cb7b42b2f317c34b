package models

import "fmt"

// GameMode identifies which of the two game-mode life cycles a room follows.
type GameMode string

const (
	ClassicMode     GameMode = "classic"
	LimitedTimeMode GameMode = "limited-time"
)

// RoomState is the explicit life-cycle state of a GameRoom. A room is only
// visible to matchmaking lookups while it is still in the lobby.
type RoomState string

const (
	StateLobby  RoomState = "lobby"
	StateActive RoomState = "active"
	StateClosed RoomState = "closed"
)

// Vector2D is a pixel position in the game board. The difference matrix is
// indexed as [y][x].
type Vector2D struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GameData is the board definition a room plays on. It is owned by the game
// CRUD collaborator and referenced read-only by the session engine.
type GameData struct {
	Name             string  `json:"name"`
	DifferenceMatrix [][]int `json:"differenceMatrix"`
	NbDifference     int     `json:"nbDifference"`
	Difficulty       string  `json:"difficulty"`
}

// UserGame is the embedded play state of a room.
type UserGame struct {
	Username1         string   `json:"username1"`
	Username2         string   `json:"username2"`
	PotentialPlayers  []string `json:"potentialPlayers"`
	GameData          GameData `json:"gameData"`
	NbDifferenceFound int      `json:"nbDifferenceFound"`
	Timer             int      `json:"timer"`
}

// GameRoom is the unit of an active or forming session. For classic mode the
// room id equals the creator's connection id until the session starts; for
// limited-time mode it may be reassigned on host migration.
type GameRoom struct {
	RoomID   string    `json:"roomId"`
	UserGame UserGame  `json:"userGame"`
	GameMode GameMode  `json:"gameMode"`
	State    RoomState `json:"state"`
}

// Started reports whether play has begun. Lobby rooms are the only ones
// visible to name/mode matchmaking lookups.
func (r *GameRoom) Started() bool {
	return r.State == StateActive
}

// TransitionTo advances the room life cycle. Only lobby->active and
// active->closed are legal moves; everything else is rejected.
func (r *GameRoom) TransitionTo(next RoomState) error {
	switch {
	case r.State == StateLobby && next == StateActive:
	case r.State == StateActive && next == StateClosed:
	default:
		return fmt.Errorf("invalid room transition: %s -> %s", r.State, next)
	}
	r.State = next
	return nil
}

// EndGame is the payload terminating a started room.
type EndGame struct {
	RoomID       string `json:"roomId"`
	Username     string `json:"username"`
	Winner       bool   `json:"winner"`
	GameFinished bool   `json:"gameFinished"`
}
