package controllers

import (
	"Spotit/services/history"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Lists all game histories
// @Description Returns every finished game's record, most recent first
// @Tags histories
// @Produce json
// @Success 200 {array} postgres.GameHistory
// @Failure 500 {object} object{error=string}
// @Router /histories [get]
func GetGamesHistories(historyService *history.HistoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		histories, err := historyService.GetGamesHistories()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching game histories"})
			return
		}
		c.JSON(http.StatusOK, histories)
	}
}

// @Summary Deletes all game histories
// @Description Wipes every persisted game record
// @Tags histories
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 500 {object} object{error=string}
// @Router /histories [delete]
func DeleteGamesHistories(historyService *history.HistoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := historyService.DeleteGamesHistories(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting game histories"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Game histories deleted"})
	}
}
