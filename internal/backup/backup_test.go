package backup

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/apaaranddhruv/satsang/internal/logging"
	"github.com/apaaranddhruv/satsang/internal/store"
)

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	failAll bool
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: make(map[string][]byte)}
}

func (u *fakeUploader) UploadJSON(ctx context.Context, objectName string, data []byte) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.failAll {
		return errors.New("upload refused")
	}
	u.objects[objectName] = data
	return nil
}

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(logging.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return log
}

func TestRunOnceExportsAllKinds(t *testing.T) {
	adapter := store.NewMemory()
	ctx := context.Background()
	adapter.AppendRow(ctx, store.KindQuotes, store.Row{"id": "quote_1", "text": "Be still"})
	adapter.AppendRow(ctx, store.KindVideos, store.Row{"id": "video_1", "title": "Morning"})

	uploader := newFakeUploader()
	job := NewJob(adapter, uploader, testLogger(t), time.Hour)
	job.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	if err := job.RunOnce(ctx); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(uploader.objects) != 4 {
		t.Fatalf("expected 4 snapshots, got %d", len(uploader.objects))
	}

	name := "backups/quotes/20250601T120000Z.json"
	data, ok := uploader.objects[name]
	if !ok {
		t.Fatalf("missing snapshot %s, have %v", name, objectNames(uploader))
	}

	var doc snapshot
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if doc.Kind != store.KindQuotes || doc.RowCount != 1 {
		t.Errorf("unexpected snapshot header: kind=%s count=%d", doc.Kind, doc.RowCount)
	}
	if doc.Rows[0]["text"] != "Be still" {
		t.Errorf("unexpected row content: %v", doc.Rows[0])
	}
}

func TestRunOnceEmptyStore(t *testing.T) {
	uploader := newFakeUploader()
	job := NewJob(store.NewMemory(), uploader, testLogger(t), time.Hour)

	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(uploader.objects) != 4 {
		t.Errorf("expected snapshots even for empty tabs, got %d", len(uploader.objects))
	}
}

func TestRunOnceReportsUploadFailure(t *testing.T) {
	uploader := newFakeUploader()
	uploader.failAll = true
	job := NewJob(store.NewMemory(), uploader, testLogger(t), time.Hour)

	if err := job.RunOnce(context.Background()); err == nil {
		t.Fatal("expected an error when uploads fail")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	uploader := newFakeUploader()
	job := NewJob(store.NewMemory(), uploader, testLogger(t), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	// Immediate run plus at least one tick
	uploader.mu.Lock()
	count := len(uploader.objects)
	uploader.mu.Unlock()
	if count < 4 {
		t.Errorf("expected at least one full export, got %d objects", count)
	}
}

func objectNames(u *fakeUploader) []string {
	names := make([]string, 0, len(u.objects))
	for name := range u.objects {
		names = append(names, name)
	}
	return names
}
