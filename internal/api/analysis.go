package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dchest/uniuri"
	"github.com/gin-gonic/gin"
	"ncs/internal/ncsapi"
)

type analysisParams struct {
	Method      string `json:"method" binding:"required" validate:"required,max=50"`
	Description string `json:"description" validate:"max=2000"`
	DataSummary string `json:"data_summary" validate:"max=2000"`
}

// CreateAnalysis queues an analysis request. The worker only produces labeled
// placeholder numbers; the queue plumbing is real, the statistics are not.
func CreateAnalysis(c *gin.Context) {
	app := c.MustGet("app").(*ncsapi.App)
	user, err := CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	var aParams analysisParams
	if err := c.ShouldBindJSON(&aParams); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(aParams.Method) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": ncsapi.ErrValidation.Error()})
		return
	}
	request := ncsapi.AnalysisRequest{
		Id:          uniuri.NewLen(16),
		UserId:      user.Id,
		Method:      aParams.Method,
		Description: aParams.Description,
		DataSummary: aParams.DataSummary,
	}
	if err := ncsapi.MarkAnalysisPending(c, app.Rdb, request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	task, err := ncsapi.NewAnalysisTask(request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if _, err := app.Aqc.Enqueue(task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": request.Id, "status": "pending", "stub": true})
}

// GetAnalysis returns the stored result for a queued request.
func GetAnalysis(c *gin.Context) {
	app := c.MustGet("app").(*ncsapi.App)
	user, err := CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	result, err := ncsapi.GetAnalysisResult(c, app.Rdb, id)
	if err != nil {
		domainError(c, err)
		return
	}
	if result.UserId != user.Id {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your request"})
		return
	}
	if result.Status == "pending" && c.Query("wait") == "1" {
		waitCtx, cancel := context.WithTimeout(c, 5*time.Second)
		defer cancel()
		if _, err := ncsapi.WaitForAsynqTaskResult(waitCtx, app.Aqi, "analysis", id); err == nil {
			if done, err := ncsapi.GetAnalysisResult(c, app.Rdb, id); err == nil {
				result = done
			}
		}
	}
	c.JSON(http.StatusOK, result)
}
