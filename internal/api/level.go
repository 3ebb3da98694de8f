package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"ncs/internal/ncsapi"
)

// GetLevels exposes the progression table for the levels page.
func GetLevels(c *gin.Context) {
	app := c.MustGet("app").(*ncsapi.App)
	config := ncsapi.RefreshConfig(c, app.Rdb)
	c.JSON(http.StatusOK, gin.H{"levels": config.Levels})
}

// GetProgress evaluates the authenticated user against the level table.
func GetProgress(c *gin.Context) {
	app := c.MustGet("app").(*ncsapi.App)
	user, err := CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	config := ncsapi.RefreshConfig(c, app.Rdb)
	progression, err := ncsapi.EvaluateLevel(user.TokensEarned, int64(user.RefCounter), config.Levels)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, progression)
}
