package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/apaaranddhruv/satsang/internal/admin"
	"github.com/apaaranddhruv/satsang/internal/auth"
	"github.com/apaaranddhruv/satsang/internal/backup"
	"github.com/apaaranddhruv/satsang/internal/config"
	"github.com/apaaranddhruv/satsang/internal/content"
	"github.com/apaaranddhruv/satsang/internal/logging"
	"github.com/apaaranddhruv/satsang/internal/mailer"
	"github.com/apaaranddhruv/satsang/internal/metrics"
	"github.com/apaaranddhruv/satsang/internal/middleware"
	"github.com/apaaranddhruv/satsang/internal/otp"
	"github.com/apaaranddhruv/satsang/internal/queue"
	"github.com/apaaranddhruv/satsang/internal/storage"
	"github.com/apaaranddhruv/satsang/internal/store"
	"github.com/apaaranddhruv/satsang/internal/tracing"
	"github.com/apaaranddhruv/satsang/pkg/models"
)

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
		_, closer, err := tracing.InitTracer("satsang-api", cfg.Tracing.JaegerEndpoint)
		if err != nil {
			log.ErrorWithErr("Failed to initialize tracer", err)
		} else {
			defer closer.Close()
		}
	}

	middleware.SetJWTSecret(cfg.Auth.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapter, cleanup, err := buildAdapter(cfg)
	if err != nil {
		log.Fatal("Failed to initialize content store: " + err.Error())
	}
	defer cleanup()

	otpStore, err := buildOTPStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize OTP store: " + err.Error())
	}

	sender := mailer.New(cfg.SMTP, log)
	otps := otp.NewService(otpStore, sender, log, cfg.OTP.TTL)
	otps.StartSweeper(ctx, cfg.OTP.SweepInterval)

	policy := auth.NewPolicy(cfg.Auth.AdminEmails)
	auths := auth.NewService(adapter, policy, otps, log)

	quotes := content.NewLibrary[models.Quote](
		content.NewRepository[models.Quote](content.QuoteKind{}, adapter, log), log)
	videos := content.NewLibrary[models.Video](
		content.NewRepository[models.Video](content.VideoKind{}, adapter, log), log)
	events := content.NewLibrary[models.Event](
		content.NewRepository[models.Event](content.EventKind{}, adapter, log), log)

	quotes.Init(ctx)
	videos.Init(ctx)
	events.Init(ctx)

	quotes.Subscribe(func(recs []models.Quote) { metrics.UpdateLibrarySize(store.KindQuotes, len(recs)) })
	videos.Subscribe(func(recs []models.Video) { metrics.UpdateLibrarySize(store.KindVideos, len(recs)) })
	events.Subscribe(func(recs []models.Event) { metrics.UpdateLibrarySize(store.KindEvents, len(recs)) })

	var q *queue.Queue
	if q, err = queue.New(cfg.Queue); err != nil {
		log.ErrorWithErr("Queue unavailable, content events will not be published", err)
		q = nil
	} else {
		defer q.Close()
	}

	api := &API{
		quotes: quotes,
		videos: videos,
		events: events,
		flow:   admin.NewFlow(quotes, videos, log),
		auth:   auths,
		otp:    otps,
		queue:  q,
		cfg:    cfg,
		log:    log,
	}

	if cfg.Backup.Enabled {
		stor, err := storage.New(cfg.Storage)
		if err != nil {
			log.ErrorWithErr("Backup storage unavailable, backups disabled", err)
		} else {
			go backup.NewJob(adapter, stor, log, cfg.Backup.Interval).Run(ctx)
		}
	}

	metricsSrv := metrics.NewServer(cfg.Metrics.Port)
	go func() {
		if err := metricsSrv.Start(); err != nil && err != http.ErrServerClosed {
			log.ErrorWithErr("Metrics server failed", err)
		}
	}()

	router := setupRouter(api, cfg, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithField("addr", addr).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server: " + err.Error())
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr("Server forced to shutdown", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr("Metrics server forced to shutdown", err)
	}

	log.Info("Server stopped")
}

// buildAdapter selects the content store backend from configuration
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

// buildOTPStore selects the OTP backend from configuration
func buildOTPStore(cfg *config.Config) (otp.Store, error) {
	switch cfg.OTP.Backend {
	case "redis":
		return otp.NewRedisStore(cfg.Redis)
	case "memory", "":
		return otp.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown OTP backend %q", cfg.OTP.Backend)
	}
}

func setupRouter(api *API, cfg *config.Config, log *logging.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics())
	if cfg.Tracing.Enabled {
		router.Use(tracing.Middleware())
	}

	router.GET("/health", api.healthCheck)

	limiter := middleware.NewRateLimiter(10, 20)

	v1 := router.Group("/api/v1")
	{
		// Auth and email verification
		v1.POST("/auth/otp/send", api.sendOTP)
		v1.POST("/auth/otp/verify", api.verifyOTP)
		v1.GET("/auth/otp/remaining", api.otpRemaining)
		v1.POST("/auth/register", api.register)
		v1.POST("/auth/login", api.login)

		// Public content reads
		v1.GET("/quotes", api.listQuotes)
		v1.GET("/videos", api.listVideos)
		v1.GET("/events", api.listEvents)

		// Admin mutations
		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.JWTAuth(), middleware.AdminOnly(), middleware.RateLimit(limiter))
		{
			adminGroup.POST("/quotes", api.addQuote)
			adminGroup.PATCH("/quotes/:id", api.updateQuote)
			adminGroup.DELETE("/quotes/:id", api.removeQuote)

			adminGroup.POST("/videos", api.addVideo)
			adminGroup.PATCH("/videos/:id", api.updateVideo)
			adminGroup.DELETE("/videos/:id", api.removeVideo)

			adminGroup.POST("/events", api.addEvent)
			adminGroup.PATCH("/events/:id", api.updateEvent)
			adminGroup.DELETE("/events/:id", api.removeEvent)
		}
	}

	return router
}
