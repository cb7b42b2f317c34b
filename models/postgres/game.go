package postgres

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

/*
 * 'Game' is a board definition created by the image CRUD surface: two
 * near-identical images plus the per-pixel difference matrix computed at
 * creation time. The session engine only ever reads these.
 */
type Game struct {
	Name             string         `gorm:"primaryKey;size:100;not null" json:"name"`
	Difficulty       string         `gorm:"size:20" json:"difficulty"`
	NbDifference     int            `gorm:"not null" json:"nbDifference"`
	DifferenceMatrix datatypes.JSON `gorm:"type:jsonb;not null" json:"differenceMatrix"`
	CreatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"-"`
}

// DecodeMatrix unmarshals the stored jsonb matrix into its [][]int form.
func (g *Game) DecodeMatrix() ([][]int, error) {
	var matrix [][]int
	if err := json.Unmarshal(g.DifferenceMatrix, &matrix); err != nil {
		return nil, err
	}
	return matrix, nil
}
