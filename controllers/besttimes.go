package controllers

import (
	"Spotit/services/redis"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultBestTimesCount = 3

// @Summary Gives the best times of a board
// @Description Returns the fastest winning times for a board and mode label
// @Tags besttimes
// @Produce json
// @Param name path string true "Name of the board"
// @Param mode path string true "History mode label (e.g. classic-1v1)"
// @Param count query int false "Number of entries to return (default 3)"
// @Success 200 {array} redis.BestTime
// @Failure 500 {object} object{error=string}
// @Router /besttimes/{name}/{mode} [get]
func GetBestTimes(redisClient *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		mode := c.Param("mode")
		count := int64(defaultBestTimesCount)
		if raw := c.Query("count"); raw != "" {
			if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
				count = parsed
			}
		}

		bestTimes, err := redisClient.GetBestTimes(name, mode, count)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching best times"})
			return
		}
		c.JSON(http.StatusOK, bestTimes)
	}
}
