package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/dchest/uniuri"
	"github.com/gin-gonic/gin"

	"ncs/internal/api/jwt"
	"ncs/internal/ncsapi"
)

var ctx = context.Background()

type registerParams struct {
	Email       string `json:"email" binding:"required" validate:"required,max=250"`
	Name        string `json:"name" binding:"required" validate:"required,max=150"`
	Hash        string `json:"fingerprint" validate:"max=50"`
	RefUrl      string `json:"invite_link" validate:"max=8"`
	Affiliation string `json:"affiliation" validate:"max=250"`
	Orcid       string `json:"orcid" validate:"max=19"`
	Utm         string `json:"utm" validate:"max=500"`
	Ip          string `json:"ip" validate:"max=39"`
	Referer     string `json:"referer" validate:"max=150"`
	Locale      string `json:"locale" validate:"max=5"`
}

type signinParams struct {
	Email string `json:"email" binding:"required"`
	Hash  string `json:"fingerprint" binding:"required"`
}

// Register creates the account, assigns a unique referral slug and pays the
// one-time signup bonus through the ledger.
func Register(c *gin.Context) {
	app := c.MustGet("app").(*ncsapi.App)
	var registerP registerParams
	if err := c.ShouldBindJSON(&registerP); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(registerP.Email))
	name := strings.TrimSpace(registerP.Name)
	if email == "" || name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": ncsapi.ErrValidation.Error()})
		return
	}
	var double ncsapi.User
	res := app.Db.Where("email = ?", email).First(&double)
	if res.RowsAffected == 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "already registered"})
		return
	}
	user := ncsapi.User{
		Email:       email,
		Name:        name,
		Hash:        registerP.Hash,
		Affiliation: registerP.Affiliation,
		Orcid:       registerP.Orcid,
		Utm:         registerP.Utm,
		Ip:          registerP.Ip,
		Referer:     registerP.Referer,
		Locale:      registerP.Locale,
	}
	// Attach the inviting user, if the slug resolves
	if registerP.RefUrl != "" {
		var upline ncsapi.User
		res = app.Db.Where("ref_url = ?", registerP.RefUrl).First(&upline)
		if res.RowsAffected == 1 {
			user.Upline = upline.Id
		}
	}
	for {
		refNew := uniuri.NewLenChars(8, []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"))
		var slugDouble ncsapi.User
		res = app.Db.Where("ref_url = ?", refNew).First(&slugDouble)
		if res.RowsAffected == 1 {
			continue
		}
		user.RefUrl = refNew
		break
	}
	res = app.Db.Create(&user)
	if res.Error != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": res.Error.Error()})
		return
	}
	config := ncsapi.RefreshConfig(ctx, app.Rdb)
	signupBonus := config.Settings.Bonuses.Signup
	if signupBonus > 0 {
		user, _, err := ncsapi.Earn(app.Db, user.Id, user.Id, signupBonus, ncsapi.EntryTypeBonus, "Signup bonus")
		if err == nil {
			publishNotification(app, user, ncsapi.NotificationData{
				Style:   MessageStyleSuccess,
				Type:    MessageTypeCustom,
				Message: "Welcome to NCS! Your signup bonus has been credited. Complete tasks or share your referral link to earn more NCS Tokens.",
				Amount:  signupBonus,
			})
		}
	}
	cpUrl := os.Getenv("CP_URL")
	msg := fmt.Sprintf(
		`New researcher [User: %d](%s/users/%d)
Name: %s
Locale: %s`,
		user.Id,
		cpUrl,
		user.Id,
		ncsapi.EscapeMarkdownV2(user.Name),
		ncsapi.EscapeMarkdownV2(user.Locale),
	)
	if user.Upline > 0 {
		msg = fmt.Sprintf(
			`%s
Invited by [User: %d](%s/users/%d)`,
			msg,
			user.Upline,
			cpUrl,
			user.Upline,
		)
	}
	_ = ncsapi.SendTelegramMessage(msg, "signup")
	token, err := jwt.GenerateJWT(user.Id, user.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Re-read, the bonus payment updated the totals
	app.Db.Where("id = ?", user.Id).First(&user)
	c.JSON(http.StatusOK, gin.H{
		"user":      ncsapi.Snapshot(config, user),
		"is_signup": true,
		"jwt":       token,
	})
}

// Signin re-issues a session token for a known account. Real credential
// issuance lives with an external identity collaborator; this only matches
// the stored device fingerprint.
func Signin(c *gin.Context) {
	app := c.MustGet("app").(*ncsapi.App)
	var signinP signinParams
	if err := c.ShouldBindJSON(&signinP); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(signinP.Email))
	var user ncsapi.User
	res := app.Db.Where(
		"email = ? AND hash <> '' AND hash = ?",
		email,
		signinP.Hash,
	).First(&user)
	if res.RowsAffected != 1 {
		c.JSON(http.StatusForbidden, gin.H{"error": "unknown account"})
		return
	}
	token, err := jwt.GenerateJWT(user.Id, user.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	config := ncsapi.RefreshConfig(ctx, app.Rdb)
	c.JSON(http.StatusOK, gin.H{
		"user":      ncsapi.Snapshot(config, user),
		"is_signup": false,
		"jwt":       token,
	})
}
