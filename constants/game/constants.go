package game_constants

import "time"

// Difference matrix sentinel: any other value is a difference-region id.
const EMPTY_PIXEL_VALUE = -1

// Limited-time timer bounds (seconds). The timer is clamped to
// [0, MAX_LIMITED_TIME] on every tick.
const MAX_LIMITED_TIME = 120

// Interval between timer updates emitted to every started room.
const DELAY_BETWEEN_EMISSIONS = 1 * time.Second

// Winner sentinel stored in a game history when nobody won.
const NO_WINNER = "no winner"

// Canonical game history mode labels. These are stored verbatim in
// PostgreSQL and must round-trip unchanged.
const (
	CLASSIC_SOLO = "classic-solo"
	CLASSIC_1V1  = "classic-1v1"
	LIMITED_SOLO = "limited-solo"
	LIMITED_COOP = "limited-coop"
)
