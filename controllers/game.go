package controllers

import (
	postgres_models "Spotit/models/postgres"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Lists all board definitions
// @Description Returns every playable board with its difficulty and difference count
// @Tags games
// @Produce json
// @Success 200 {array} postgres.Game
// @Failure 500 {object} object{error=string}
// @Router /games [get]
func GetAllGames(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var games []postgres_models.Game
		if err := db.Find(&games).Error; err != nil {
			log.Printf("[GAMES-ERROR] Failed to fetch games: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching games"})
			return
		}
		c.JSON(http.StatusOK, games)
	}
}

// @Summary Gives a single board definition
// @Description Given a board name, returns its full definition including the difference matrix
// @Tags games
// @Produce json
// @Param name path string true "Name of the board"
// @Success 200 {object} postgres.Game
// @Failure 404 {object} object{error=string}
// @Router /games/{name} [get]
func GetGameByName(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		var game postgres_models.Game
		if err := db.Where("name = ?", name).First(&game).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
				return
			}
			log.Printf("[GAMES-ERROR] Failed to fetch game %s: %v", name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching game"})
			return
		}
		c.JSON(http.StatusOK, game)
	}
}
