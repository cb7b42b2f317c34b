package history

import (
	models "Spotit/models/postgres"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// HistoryService persists closed game histories to PostgreSQL. The session
// engine calls SaveGameHistory exactly once per room closure, fire-and-forget.
type HistoryService struct {
	DB *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{DB: db}
}

// SaveGameHistory inserts the finalized record. A failure here is logged and
// swallowed on purpose: the game already concluded from the players'
// perspective, and the live room must be released either way.
func (hs *HistoryService) SaveGameHistory(gameHistory *models.GameHistory) error {
	if err := hs.DB.Create(gameHistory).Error; err != nil {
		log.Printf("[HISTORY-ERROR] Failed to save game history for %s: %v", gameHistory.Name, err)
		return fmt.Errorf("failed to save game history: %w", err)
	}
	log.Printf("[HISTORY] Saved game history: %s (%s)", gameHistory.Name, gameHistory.GameMode)
	return nil
}

// GetGamesHistories returns every persisted record, most recent first.
func (hs *HistoryService) GetGamesHistories() ([]models.GameHistory, error) {
	var histories []models.GameHistory
	if err := hs.DB.Order("start_time DESC").Find(&histories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch game histories: %w", err)
	}
	return histories, nil
}

// DeleteGamesHistories wipes all persisted records.
func (hs *HistoryService) DeleteGamesHistories() error {
	if err := hs.DB.Where("1 = 1").Delete(&models.GameHistory{}).Error; err != nil {
		return fmt.Errorf("failed to delete game histories: %w", err)
	}
	return nil
}
