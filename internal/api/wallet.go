package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"ncs/internal/ncsapi"
)

type spendParams struct {
	Amount  int64  `json:"amount" binding:"required"`
	Message string `json:"message" validate:"max=250"`
}

type PaginatedTx struct {
	Count    int                  `json:"count"`
	Next     string               `json:"next"`
	Previous string               `json:"previous"`
	Results  []ncsapi.LedgerEntry `json:"results"`
}

// domainError maps ledger errors to their HTTP replies. Everything here is a
// user-facing condition except ErrInvalidAmount, which means a handler let a
// non-positive amount through validation.
func domainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ncsapi.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ncsapi.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ncsapi.ErrAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ncsapi.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ncsapi.ErrInvalidAmount):
		fmt.Println("programming error, invalid amount reached the ledger:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetTransactionsList returns the user's ledger history, newest first.
func GetTransactionsList(c *gin.Context) {
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
	var entries []ncsapi.LedgerEntry
	app.Db.Where("user_id = ?", user.Id).
		Order("created_at DESC").
		Find(&entries)
	c.JSON(http.StatusOK, paginateTx(entries, page, size))
}

func paginateTx(entries []ncsapi.LedgerEntry, page int, size int) (paginatedTx PaginatedTx) {
	paginatedTx.Results = []ncsapi.LedgerEntry{}
	paginatedTx.Count = len(entries)
	feedLen := len(entries)
	i := (page - 1) * size
	if feedLen <= i {
		return paginatedTx
	}
	if feedLen > page*size {
		paginatedTx.Next = fmt.Sprintf("/users/tx/?page=%d&size=%d", page+1, size)
	}
	if page > 1 {
		paginatedTx.Previous = fmt.Sprintf("/users/tx/?page=%d&size=%d", page-1, size)
	}
	j := i + size
	if j > feedLen {
		j = feedLen
	}
	paginatedTx.Results = entries[i:j]
	return paginatedTx
}

// Redeem spends tokens from the balance against the configured limits.
func Redeem(c *gin.Context) {
	app := c.MustGet("app").(*ncsapi.App)
	user, err := CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	var sParams spendParams
	if err := c.ShouldBindJSON(&sParams); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if sParams.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": ncsapi.ErrValidation.Error()})
		return
	}
	// We check limits here
	config := ncsapi.RefreshConfig(c, app.Rdb)
	if sParams.Amount < config.Settings.Limits.RedeemMin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_redeem"})
		return
	}
	if sParams.Amount > config.Settings.Limits.RedeemMax {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_redeem"})
		return
	}
	user, entry, err := ncsapi.Spend(app.Db, user.Id, user.Id, sParams.Amount, ncsapi.EntryTypeRedeem, sParams.Message)
	if err != nil {
		domainError(c, err)
		return
	}
	publishNotification(app, user, ncsapi.NotificationData{
		Style:   MessageStyleInfo,
		Type:    MessageTypeRedeemProcessed,
		Message: "Your redemption has been processed.",
		Amount:  entry.Amount,
	})
	cpUrl := os.Getenv("CP_URL")
	msg := fmt.Sprintf(
		`Redemption [Entry: %d](%s/entries/%d)
[User: %d](%s/users/%d)
Amount: %s
Balance: %s`,
		entry.Id,
		cpUrl,
		entry.Id,
		user.Id,
		cpUrl,
		user.Id,
		ncsapi.EscapeMarkdownV2(strconv.FormatInt(sParams.Amount, 10)),
		ncsapi.EscapeMarkdownV2(strconv.FormatInt(user.Balance, 10)),
	)
	_ = ncsapi.SendTelegramMessage(msg, "finance")
	c.JSON(http.StatusOK, gin.H{
		"user":  ncsapi.Snapshot(config, user),
		"entry": entry,
	})
}
