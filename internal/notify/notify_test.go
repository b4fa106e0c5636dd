package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apaaranddhruv/satsang/internal/config"
	"github.com/apaaranddhruv/satsang/internal/logging"
	"github.com/apaaranddhruv/satsang/internal/queue"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(logging.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return log
}

func TestNotifyContentAdded(t *testing.T) {
	var received pushMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	pusher := NewPusher(config.PushConfig{Endpoint: srv.URL, Timeout: time.Second}, testLogger(t))

	event := &queue.ContentEvent{
		Kind:      "quotes",
		ContentID: "quote_1700000000000",
		Title:     "Be still",
	}
	if err := pusher.NotifyContentAdded(context.Background(), event); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if received.Title != "New quote added" {
		t.Errorf("unexpected title %q", received.Title)
	}
	if received.Body != "Be still" {
		t.Errorf("unexpected body %q", received.Body)
	}
	if received.Data["content_id"] != "quote_1700000000000" {
		t.Errorf("unexpected data %v", received.Data)
	}
}

func TestNotifyEndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	pusher := NewPusher(config.PushConfig{Endpoint: srv.URL, Timeout: time.Second}, testLogger(t))

	event := &queue.ContentEvent{Kind: "videos", ContentID: "video_1", Title: "Morning"}
	if err := pusher.NotifyContentAdded(context.Background(), event); err == nil {
		t.Fatal("expected an error on non-2xx response")
	}
}

func TestNotifyUnreachableEndpoint(t *testing.T) {
	pusher := NewPusher(config.PushConfig{
		Endpoint: "http://127.0.0.1:1/push",
		Timeout:  200 * time.Millisecond,
	}, testLogger(t))

	event := &queue.ContentEvent{Kind: "quotes", ContentID: "quote_1", Title: "Be still"}
	if err := pusher.NotifyContentAdded(context.Background(), event); err == nil {
		t.Fatal("expected an error when the endpoint is unreachable")
	}
}
