package ncsapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ExportPayload is what the document export target receives: a generated
// document plus the filename to deliver it under.
type ExportPayload struct {
	Filename string `json:"filename"`
	Format   string `json:"format"` // "html" or "pages"
	Html     string `json:"html,omitempty"`
	Pages    []Page `json:"pages,omitempty"`
}

// DeliverExport posts the document to the export collaborator. Delivery is a
// plain idempotent POST keyed by filename, so a bounded retry is safe.
func DeliverExport(config *AppConfig, payload ExportPayload) error {
	target := config.Settings.Export.TargetUrl
	if target == "" {
		return errors.New("EXPORT_TARGET_URL is not set")
	}
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(target)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("export target replied %d", resp.StatusCode())
	}
	return nil
}
