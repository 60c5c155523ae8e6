// services/notify.go
package services

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"tournament-entry-system/utils"
)

// Notifier posts payment confirmations to the notification webhook (which
// fans out to email/SMS). Dispatch is fire-and-forget: a dead webhook is
// logged and never fails or rolls back the payment that triggered it.
type Notifier struct {
	WebhookURL string
}

func NewNotifier() *Notifier {
	return &Notifier{WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL")}
}

// Send dispatches asynchronously. Safe to call with a nil receiver or empty
// URL; both are no-ops.
func (n *Notifier) Send(event string, payload map[string]any) {
	if n == nil || n.WebhookURL == "" {
		return
	}
	go func() {
		body, err := json.Marshal(map[string]any{"event": event, "data": payload})
		if err != nil {
			log.Printf("⚠️ [NOTIFY] Failed to encode %s payload: %v", event, err)
			return
		}
		resp, err := utils.HTTPClient.Post(n.WebhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("⚠️ [NOTIFY] Dispatch of %s failed: %v", event, err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusBadRequest {
			log.Printf("⚠️ [NOTIFY] Webhook returned %d for %s", resp.StatusCode, event)
			return
		}
		log.Printf("✅ [NOTIFY] Dispatched %s", event)
	}()
}
