package socketio_events

// Game mode channel events.
const (
	ValidateDifference  = "validate"
	DifferenceValidated = "validated"
	EndGame             = "endGame"
	GameFinished        = "GameFinished"
	Abandoned           = "abandoned"
	GameDeleted         = "gameDeleted"
	GameCanceled        = "gameCanceled"
	Timer               = "timer"
	ChangeTime          = "changeTime"
	NextGame            = "nextGame"
)

// Waiting room channel events.
const (
	Start             = "start"
	Started           = "started"
	CreateGame        = "createGame"
	GameCreated       = "gameCreated"
	AskingToJoinGame  = "askingToJoinGame"
	GameInfo          = "gameInfo"
	AbortGameCreation = "abortGameCreation"
	LeaveGame         = "leaveGame"
	RejectPlayer      = "rejectPlayer"
	PlayerRejected    = "playerRejected"
	AcceptPlayer      = "acceptPlayer"
	PlayerAccepted    = "playerAccepted"
)

// Game finder channel events.
const (
	CheckGame      = "checkGame"
	GameFound      = "gameFound"
	CanJoinGame    = "canJoinGame"
	CannotJoinGame = "cannotJoinGame"
)
