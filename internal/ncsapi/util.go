package ncsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ncs/internal/telegram"
)

const (
	MessageTargetSync = "sync"
)

type WsResponseData struct {
	Target        string           `json:"target"` // Websocket message type: 'notify', 'alert', 'sync'
	User          UserData         `json:"user"`
	ReferralStats RefData          `json:"referral_stats"`
	Data          NotificationData `json:"data"`
	Config        AppConfig        `json:"app_config"`
}

type NotificationData struct {
	Id      int    `json:"id"`
	Style   string `json:"style"`   // Target component style: 'success', 'warning', 'error', 'info'
	Type    string `json:"type"`    // Notification type: 'custom', 'task_completed', 'referral_recorded', 'redeem_processed'
	Message string `json:"message"`
	TaskId  uint   `json:"task_id"`
	Amount  int64  `json:"amount"` // Reward, redemption, etc. NCS Token amount
}

func EscapeMarkdownV2(text string) string {
	specialChars := []string{"_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	for _, char := range specialChars {
		text = strings.ReplaceAll(text, char, "\\"+char)
	}
	return text
}

func SendTelegramMessage(msg string, chat string) error {
	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		err := errors.New("TELEGRAM_TOKEN is not set")
		return err
	}
	var chatId string
	switch chat {
	case "signup":
		chatId = os.Getenv("SIGNUP_CHAT_ID")
		if chatId == "" {
			err := errors.New("SIGNUP CHAT_ID is not set")
			return err
		}
	case "finance":
		chatId = os.Getenv("FINANCE_CHAT_ID")
		if chatId == "" {
			err := errors.New("FINANCE CHAT_ID is not set")
			return err
		}
	default:
		chatId = os.Getenv("DEFAULT_CHAT_ID")
		if chatId == "" {
			err := errors.New("DEFAULT CHAT_ID is not set")
			return err
		}
	}
	chatIdInt, err := strconv.Atoi(chatId)
	if err != nil {
		return err
	}
	id := int64(chatIdInt)
	bot, err := telegram.NewBot(token)
	if err != nil {
		return err
	}
	// Send a message
	_, err = bot.Api.SendMessage(id, msg, &gotgbot.SendMessageOpts{
		ParseMode: "MarkdownV2",
		LinkPreviewOptions: &gotgbot.LinkPreviewOptions{
			IsDisabled: true,
		},
	})
	if err != nil {
		return err
	}
	return nil
}

func WaitForAsynqTaskResult(ctx context.Context, i *asynq.Inspector, queue, taskID string) (*asynq.TaskInfo, error) {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			taskInfo, err := i.GetTaskInfo(queue, taskID)
			if err != nil {
				return nil, err
			}
			if taskInfo.CompletedAt.IsZero() {
				continue
			}
			return taskInfo, nil
		case <-ctx.Done():
			return nil, fmt.Errorf("context closed")
		}
	}
}

// Snapshot builds the wallet view with the level block recomputed from the
// stored cumulative totals.
func Snapshot(config *AppConfig, user User) UserData {
	progression, err := EvaluateLevel(user.TokensEarned, int64(user.RefCounter), config.Levels)
	if err != nil {
		// Negative totals cannot come from committed operations
		fmt.Println("progression error for user", user.Id, ":", err)
	}
	return UserData{
		ID:           user.Id,
		Balance:      user.Balance,
		TokensEarned: user.TokensEarned,
		TokensSpent:  user.TokensSpent,
		RefCounter:   user.RefCounter,
		RefUrl:       user.RefUrl,
		Actions:      user.Actions,
		Level:        progression,
	}
}

func SyncUserStats(rdb *redis.Client, db *gorm.DB, user User) (jsonData []byte) {
	config := RefreshConfig(context.Background(), rdb)
	data := WsResponseData{
		Target:        MessageTargetSync,
		Config:        *config,
		User:          Snapshot(config, user),
		ReferralStats: GetRefStats(db, user),
	}
	var err error
	jsonData, err = json.Marshal(data)
	if err != nil {
		return
	}
	return jsonData
}
