package api

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"ncs/internal/ncsapi"
)

const (
	MessageTargetNotification = "notify"
	MessageTargetAlert        = "alert"

	MessageStyleSuccess = "success"
	MessageStyleWarning = "warning"
	MessageStyleError   = "error"
	MessageStyleInfo    = "info"

	MessageTypeCustom           = "custom"
	MessageTypeTaskCompleted    = "task_completed"
	MessageTypeReferralRecorded = "referral_recorded"
	MessageTypeRedeemProcessed  = "redeem_processed"
)

// publishNotification pushes a notification for the user's live channel. The
// WebSocket handler relays it; undelivered messages wait in the Redis cache.
func publishNotification(app *ncsapi.App, user ncsapi.User, data ncsapi.NotificationData) {
	config := ncsapi.RefreshConfig(ctx, app.Rdb)
	if data.Id == 0 {
		data.Id = rand.Intn(99999)
	}
	notification, err := json.Marshal(ncsapi.WsResponseData{
		Target: MessageTargetNotification,
		Config: *config,
		User:   ncsapi.Snapshot(config, user),
		Data:   data,
	})
	if err != nil {
		return
	}
	_ = app.Rdb.Publish(ctx, fmt.Sprintf("notification_ch@%d", user.Id), notification).Err()
}
