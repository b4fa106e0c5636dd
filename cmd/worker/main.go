package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/apaaranddhruv/satsang/internal/backup"
	"github.com/apaaranddhruv/satsang/internal/config"
	"github.com/apaaranddhruv/satsang/internal/logging"
	"github.com/apaaranddhruv/satsang/internal/notify"
	"github.com/apaaranddhruv/satsang/internal/queue"
	"github.com/apaaranddhruv/satsang/internal/storage"
	"github.com/apaaranddhruv/satsang/internal/store"
	"github.com/apaaranddhruv/satsang/internal/tracing"
)

// The worker drains content events into push notifications and runs
// the periodic content backup. It shares the store and queue with the
// API but owns no HTTP surface.
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer("satsang-worker", cfg.Tracing.JaegerEndpoint)
		if err != nil {
			log.ErrorWithErr("Failed to initialize tracer", err)
		} else {
			defer closer.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	q, err := queue.New(cfg.Queue)
	if err != nil {
		log.Fatal("Failed to connect to queue: " + err.Error())
	}
	defer q.Close()

	pusher := notify.NewPusher(cfg.Push, log)
	err = q.ConsumeContentEvents(ctx, func(event *queue.ContentEvent) error {
		return pusher.NotifyContentAdded(ctx, event)
	})
	if err != nil {
		log.Fatal("Failed to start consumer: " + err.Error())
	}
	log.Info("Content event consumer started")

	if cfg.Backup.Enabled {
		adapter, cleanup, err := buildAdapter(cfg)
		if err != nil {
			log.Fatal("Failed to initialize content store: " + err.Error())
		}
		defer cleanup()

		stor, err := storage.New(cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize backup storage: " + err.Error())
		}

		go backup.NewJob(adapter, stor, log, cfg.Backup.Interval).Run(ctx)
		log.Info("Backup job started")
	}

	<-ctx.Done()
	log.Info("Worker stopped")
}

func buildAdapter(cfg *config.Config) (store.Adapter, func(), error) {
	switch cfg.Store.Backend {
	case "postgres":
		pg, err := store.NewPostgres(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	case "sheet":
		return store.NewSheet(cfg.Sheet), func() {}, nil
	case "memory", "":
		return store.NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
