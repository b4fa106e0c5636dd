package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apaaranddhruv/satsang/internal/logging"
	"github.com/apaaranddhruv/satsang/internal/metrics"
	"github.com/apaaranddhruv/satsang/internal/store"
)

// Uploader is the slice of object storage the backup job needs
type Uploader interface {
	UploadJSON(ctx context.Context, objectName string, data []byte) error
}

// snapshot is the JSON document written per kind
type snapshot struct {
	Kind       string      `json:"kind"`
	ExportedAt time.Time   `json:"exported_at"`
	RowCount   int         `json:"row_count"`
	Rows       []store.Row `json:"rows"`
}

// Job periodically exports every content tab to object storage
type Job struct {
	adapter  store.Adapter
	uploader Uploader
	log      *logging.Logger
	interval time.Duration
	kinds    []string
	now      func() time.Time
}

// NewJob creates the backup job. A non-positive interval defaults to
// 24 hours.
func NewJob(adapter store.Adapter, uploader Uploader, log *logging.Logger, interval time.Duration) *Job {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Job{
		adapter:  adapter,
		uploader: uploader,
		log:      log.WithField("component", "backup"),
		interval: interval,
		kinds:    []string{store.KindQuotes, store.KindVideos, store.KindEvents, store.KindUsers},
		now:      time.Now,
	}
}

// Run executes backups on the configured interval until the context
// is cancelled. The first run happens immediately.
func (j *Job) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	if err := j.RunOnce(ctx); err != nil {
		j.log.ErrorWithErr("backup run failed", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil {
				j.log.ErrorWithErr("backup run failed", err)
			}
		}
	}
}

// RunOnce exports every kind once. A kind that fails does not stop
// the remaining exports; the first error is returned.
func (j *Job) RunOnce(ctx context.Context) error {
	stamp := j.now().UTC()
	var firstErr error

	for _, kind := range j.kinds {
		if err := j.exportKind(ctx, kind, stamp); err != nil {
			metrics.RecordBackupRun("error")
			if firstErr == nil {
				firstErr = err
			}
			j.log.WithKind(kind).ErrorWithErr("failed to export content", err)
			continue
		}
		metrics.RecordBackupRun("ok")
	}

	return firstErr
}

func (j *Job) exportKind(ctx context.Context, kind string, stamp time.Time) error {
	rows, err := j.adapter.GetRows(ctx, kind)
	if err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}

	doc := snapshot{
		Kind:       kind,
		ExportedAt: stamp,
		RowCount:   len(rows),
		Rows:       rows,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	objectName := fmt.Sprintf("backups/%s/%s.json", kind, stamp.Format("20060102T150405Z"))
	if err := j.uploader.UploadJSON(ctx, objectName, data); err != nil {
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}

	j.log.WithKind(kind).WithField("object", objectName).Info("Content backed up")
	return nil
}
