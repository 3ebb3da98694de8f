package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"ncs/internal/ncsapi"
)

// CurrentUser resolves the authenticated user set by the Auth middleware.
func CurrentUser(c *gin.Context) (user ncsapi.User, err error) {
	app := c.MustGet("app").(*ncsapi.App)
	userId := c.MustGet("user_id").(uint)
	res := app.Db.Where("id = ?", userId).First(&user)
	if res.RowsAffected != 1 {
		return user, errors.New("invalid jwt")
	}
	return user, nil
}

func GetUser(c *gin.Context) {
	app := c.MustGet("app").(*ncsapi.App)
	user, err := CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	config := ncsapi.RefreshConfig(c, app.Rdb)
	c.JSON(http.StatusOK, gin.H{
		"user":           ncsapi.Snapshot(config, user),
		"referral_stats": ncsapi.GetRefStats(app.Db, user),
	})
}
