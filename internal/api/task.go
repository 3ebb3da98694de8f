package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"ncs/internal/ncsapi"
)

// GetTasks lists the active task catalog.
func GetTasks(c *gin.Context) {
	app := c.MustGet("app").(*ncsapi.App)
	var tasks []ncsapi.Task
	query := app.Db.Where("active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	query.Order("id ASC").Find(&tasks)
	c.JSON(http.StatusOK, gin.H{"results": tasks, "count": len(tasks)})
}

// CompleteTask pays the one-time task reward. A repeated submission for the
// same task replies 409 and pays nothing.
func CompleteTask(c *gin.Context) {
	app := c.MustGet("app").(*ncsapi.App)
	user, err := CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	taskId, err := strconv.Atoi(c.Param("id"))
	if err != nil || taskId < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	user, completion, err := ncsapi.CompleteTask(app.Db, user.Id, uint(taskId))
	if err != nil {
		domainError(c, err)
		return
	}
	publishNotification(app, user, ncsapi.NotificationData{
		Style:   MessageStyleSuccess,
		Type:    MessageTypeTaskCompleted,
		Message: "Task completed, your NCS Tokens have been credited.",
		TaskId:  completion.TaskId,
		Amount:  completion.Reward,
	})
	config := ncsapi.RefreshConfig(c, app.Rdb)
	c.JSON(http.StatusOK, gin.H{
		"user":       ncsapi.Snapshot(config, user),
		"completion": completion,
	})
}

// GetTaskStats sums completion counters for the dashboard widgets.
func GetTaskStats(c *gin.Context) {
	app := c.MustGet("app").(*ncsapi.App)
	user, err := CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	var completions []ncsapi.Completion
	app.Db.Where("user_id = ?", user.Id).Find(&completions)
	var stats ncsapi.TaskStats
	todayStart := time.Now().Truncate(24 * time.Hour)
	for _, completion := range completions {
		stats.TotalCounter++
		stats.TokensTotal += completion.Reward
		if completion.CreatedAt.After(todayStart) {
			stats.TodayCounter++
			stats.TokensToday += completion.Reward
		}
	}
	c.JSON(http.StatusOK, stats)
}
