package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"ncs/internal/ncsapi"
)

type refParams struct {
	ContactName  string `json:"contact_name" validate:"max=150"`
	ContactEmail string `json:"contact_email" validate:"max=250"`
}

type PaginatedRef struct {
	Count    int          `json:"count"`
	Next     string       `json:"next"`
	Previous string       `json:"previous"`
	Results  []ncsapi.Ref `json:"results"`
}

// CreateReferral records a referred contact and pays the fixed bonus. The
// counter bump and the payment land together or not at all.
func CreateReferral(c *gin.Context) {
	app := c.MustGet("app").(*ncsapi.App)
	user, err := CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	var rParams refParams
	if err := c.ShouldBindJSON(&rParams); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	config := ncsapi.RefreshConfig(c, app.Rdb)
	user, ref, err := ncsapi.RecordReferral(app.Db, config, user.Id, rParams.ContactName, rParams.ContactEmail)
	if err != nil {
		domainError(c, err)
		return
	}
	publishNotification(app, user, ncsapi.NotificationData{
		Style:   MessageStyleSuccess,
		Type:    MessageTypeReferralRecorded,
		Message: "Referral recorded, the bonus has been credited to your wallet.",
		Amount:  ref.Reward,
	})
	c.JSON(http.StatusOK, gin.H{
		"user":     ncsapi.Snapshot(config, user),
		"referral": ref,
	})
}

// GetReferrals lists the user's referral relations, newest first.
func GetReferrals(c *gin.Context) {
	app := c.MustGet("app").(*ncsapi.App)
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size"})
		return
	}
	if size < 1 || size > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "maximum size is 100"})
		return
	}
	user, err := CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	var referrals []ncsapi.Ref
	app.Db.Where("user_id = ?", user.Id).
		Order("created_at DESC").
		Find(&referrals)
	c.JSON(http.StatusOK, paginateRef(referrals, page, size))
}

func paginateRef(referrals []ncsapi.Ref, page int, size int) (paginatedRef PaginatedRef) {
	paginatedRef.Results = []ncsapi.Ref{}
	paginatedRef.Count = len(referrals)
	feedLen := len(referrals)
	i := (page - 1) * size
	if feedLen <= i {
		return paginatedRef
	}
	if feedLen > page*size {
		paginatedRef.Next = fmt.Sprintf("/users/ref/?page=%d&size=%d", page+1, size)
	}
	if page > 1 {
		paginatedRef.Previous = fmt.Sprintf("/users/ref/?page=%d&size=%d", page-1, size)
	}
	j := i + size
	if j > feedLen {
		j = feedLen
	}
	paginatedRef.Results = referrals[i:j]
	return paginatedRef
}
