package postgres

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

/*
 * 'GameHistory' is the append-only record derived from a room's life cycle.
 * It lives in the in-memory registry while the room is alive and is
 * persisted exactly once when the room closes.
 */
type GameHistory struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	StartTime int64          `gorm:"not null" json:"startTime"` // unix millis
	Timer     int64          `json:"timer"`                     // elapsed millis at closure
	Username1 string         `gorm:"size:50;not null" json:"username1"`
	Username2 string         `gorm:"size:50" json:"username2"`
	GameMode  string         `gorm:"size:20;not null;index:idx_game_histories_mode" json:"gameMode"`
	Abandoned pq.StringArray `gorm:"type:text[]" json:"abandoned"`
	Winner    string         `gorm:"size:50" json:"winner"`
}

func (h *GameHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
