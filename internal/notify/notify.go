package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apaaranddhruv/satsang/internal/config"
	"github.com/apaaranddhruv/satsang/internal/logging"
	"github.com/apaaranddhruv/satsang/internal/metrics"
	"github.com/apaaranddhruv/satsang/internal/queue"
)

// Pusher sends push notifications for new content. It posts to an
// Expo-compatible push endpoint; delivery is best effort.
type Pusher struct {
	client   *http.Client
	endpoint string
	log      *logging.Logger
}

// pushMessage is the payload shape the push endpoint expects
type pushMessage struct {
	To    string         `json:"to"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
}

// NewPusher creates the push notification sender
func NewPusher(cfg config.PushConfig, log *logging.Logger) *Pusher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Pusher{
		client:   &http.Client{Timeout: timeout},
		endpoint: cfg.Endpoint,
		log:      log.WithField("component", "notify"),
	}
}

// NotifyContentAdded turns a content event into a broadcast push
func (p *Pusher) NotifyContentAdded(ctx context.Context, event *queue.ContentEvent) error {
	title, body := messageFor(event)
	msg := pushMessage{
		To:    "all",
		Title: title,
		Body:  body,
		Data: map[string]any{
			"kind":       event.Kind,
			"content_id": event.ContentID,
		},
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		metrics.RecordPushDelivery("error")
		return fmt.Errorf("failed to send push: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		metrics.RecordPushDelivery("error")
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}

	metrics.RecordPushDelivery("ok")
	p.log.WithKind(event.Kind).WithField("content_id", event.ContentID).Info("Push notification sent")
	return nil
}

func messageFor(event *queue.ContentEvent) (title, body string) {
	switch event.Kind {
	case "quotes":
		return "New quote added", event.Title
	case "videos":
		return "New video added", event.Title
	case "events":
		return "New event scheduled", event.Title
	default:
		return "New content added", event.Title
	}
}
