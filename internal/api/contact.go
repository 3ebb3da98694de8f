package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ncs/internal/ncsapi"
	"ncs/internal/worker"
)

type contactParams struct {
	Name    string `json:"name" binding:"required" validate:"required,max=150"`
	Email   string `json:"email" binding:"required" validate:"required,max=250"`
	Subject string `json:"subject" validate:"max=250"`
	Message string `json:"message" binding:"required" validate:"required,max=4000"`
}

// contactTask forwards a submission to the ops channel off the request path.
type contactTask struct {
	msg string
}

func (t contactTask) Execute() {
	err := ncsapi.SendTelegramMessage(t.msg, "")
	if err != nil {
		fmt.Println("contact forward failed:", err)
	}
}

// Contact validates the contact form, echoes the accepted fields back and
// fans the message out to the ops channel through the worker pool.
func Contact(c *gin.Context) {
	pool := c.MustGet("pool").(*worker.Pool)
	var cParams contactParams
	if err := c.ShouldBindJSON(&cParams); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(cParams.Name)
	email := strings.TrimSpace(cParams.Email)
	message := strings.TrimSpace(cParams.Message)
	if name == "" || email == "" || message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": ncsapi.ErrValidation.Error()})
		return
	}
	msg := fmt.Sprintf(
		`Contact form
Name: %s
Email: %s
Subject: %s
%s`,
		ncsapi.EscapeMarkdownV2(name),
		ncsapi.EscapeMarkdownV2(email),
		ncsapi.EscapeMarkdownV2(strings.TrimSpace(cParams.Subject)),
		ncsapi.EscapeMarkdownV2(message),
	)
	pool.Exec(contactTask{msg: msg})
	c.JSON(http.StatusOK, gin.H{
		"name":    name,
		"email":   email,
		"subject": strings.TrimSpace(cParams.Subject),
		"message": message,
	})
}
