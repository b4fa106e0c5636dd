package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apaaranddhruv/satsang/internal/admin"
	"github.com/apaaranddhruv/satsang/internal/auth"
	"github.com/apaaranddhruv/satsang/internal/config"
	"github.com/apaaranddhruv/satsang/internal/content"
	"github.com/apaaranddhruv/satsang/internal/logging"
	"github.com/apaaranddhruv/satsang/internal/middleware"
	"github.com/apaaranddhruv/satsang/internal/otp"
	"github.com/apaaranddhruv/satsang/internal/store"
	"github.com/apaaranddhruv/satsang/pkg/models"
)

type silentSender struct{}

func (silentSender) Send(ctx context.Context, to, subject, body string) error { return nil }

type testEnv struct {
	router   *gin.Engine
	otpStore otp.Store
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logging.NewLogger(logging.Config{Level: "error", Format: "json", Output: "stdout"})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Auth.AdminEmails = []string{"apaaranddhruv@gmail.com"}
	cfg.OTP.TTL = 10 * time.Minute
	middleware.SetJWTSecret(cfg.Auth.JWTSecret)

	adapter := store.NewMemory()
	otpStore := otp.NewMemoryStore()
	otps := otp.NewService(otpStore, silentSender{}, log, cfg.OTP.TTL)
	policy := auth.NewPolicy(cfg.Auth.AdminEmails)

	quotes := content.NewLibrary[models.Quote](
		content.NewRepository[models.Quote](content.QuoteKind{}, adapter, log), log)
	videos := content.NewLibrary[models.Video](
		content.NewRepository[models.Video](content.VideoKind{}, adapter, log), log)
	events := content.NewLibrary[models.Event](
		content.NewRepository[models.Event](content.EventKind{}, adapter, log), log)

	ctx := context.Background()
	quotes.Init(ctx)
	videos.Init(ctx)
	events.Init(ctx)

	api := &API{
		quotes: quotes,
		videos: videos,
		events: events,
		flow:   admin.NewFlow(quotes, videos, log),
		auth:   auth.NewService(adapter, policy, otps, log),
		otp:    otps,
		cfg:    cfg,
		log:    log,
	}

	return &testEnv{
		router:   setupRouter(api, cfg, log),
		otpStore: otpStore,
		cfg:      cfg,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := middleware.GenerateToken("user-1", "apaaranddhruv@gmail.com", true, time.Hour)
	require.NoError(t, err)
	return token
}

func memberToken(t *testing.T) string {
	t.Helper()
	token, err := middleware.GenerateToken("user-2", "member@example.com", false, time.Hour)
	require.NoError(t, err)
	return token
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestListQuotesReturnsSeededContent(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/api/v1/quotes", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Quotes []models.Quote `json:"quotes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Quotes)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	body := gin.H{"text": "Be still", "author": "Guru"}

	w := env.do(t, "POST", "/api/v1/admin/quotes", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, "POST", "/api/v1/admin/quotes", memberToken(t), body)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddQuote(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/v1/admin/quotes", adminToken(t),
		gin.H{"text": "  Be still  ", "author": "Guru"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Quote models.Quote `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Be still", created.Quote.Text)
	assert.Equal(t, models.DefaultQuoteCategory, created.Quote.Category)

	// The new quote appears first in the listing
	w = env.do(t, "GET", "/api/v1/quotes", "", nil)
	var resp struct {
		Quotes []models.Quote `json:"quotes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Quotes)
	assert.Equal(t, created.Quote.ID, resp.Quotes[0].ID)
}

func TestAddQuoteValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/v1/admin/quotes", adminToken(t),
		gin.H{"text": "   ", "author": "Guru"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddVideoExtractsYouTubeID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/v1/admin/videos", adminToken(t), gin.H{
		"title":       "Morning Meditation",
		"description": "Guided session",
		"url":         "https://youtu.be/XYZ789?t=5",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Video models.Video `json:"video"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "XYZ789", created.Video.YouTubeID)
}

func TestAddVideoRejectsNonYouTubeURL(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/v1/admin/videos", adminToken(t), gin.H{
		"title":       "Morning Meditation",
		"description": "Guided session",
		"url":         "https://vimeo.com/12345",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAndRemoveQuote(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t)

	w := env.do(t, "POST", "/api/v1/admin/quotes", token,
		gin.H{"text": "Be still", "author": "Guru"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Quote models.Quote `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = env.do(t, "PATCH", "/api/v1/admin/quotes/"+created.Quote.ID, token,
		gin.H{"author": "Swami"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Swami")

	w = env.do(t, "DELETE", "/api/v1/admin/quotes/"+created.Quote.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, "DELETE", "/api/v1/admin/quotes/"+created.Quote.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOTPVerifyFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/v1/auth/otp/send", "", gin.H{"email": "dhruv@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	rec, err := env.otpStore.Get(context.Background(), "dhruv@example.com")
	require.NoError(t, err)
	require.NotNil(t, rec)

	w = env.do(t, "POST", "/api/v1/auth/otp/verify", "",
		gin.H{"email": "dhruv@example.com", "code": "000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "POST", "/api/v1/auth/otp/verify", "",
		gin.H{"email": "dhruv@example.com", "code": rec.Code})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/api/v1/auth/otp/remaining?email=dhruv@example.com", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var remaining struct {
		RemainingSeconds int `json:"remaining_seconds"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &remaining))
	assert.Greater(t, remaining.RemainingSeconds, 0)
}

func TestRegisterAndLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	// Registration is blocked until the email is verified
	w := env.do(t, "POST", "/api/v1/auth/register", "",
		gin.H{"name": "Apaar", "email": "apaaranddhruv@gmail.com", "password": "secret123"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, "POST", "/api/v1/auth/otp/send", "", gin.H{"email": "apaaranddhruv@gmail.com"})
	require.Equal(t, http.StatusOK, w.Code)
	rec, err := env.otpStore.Get(context.Background(), "apaaranddhruv@gmail.com")
	require.NoError(t, err)
	w = env.do(t, "POST", "/api/v1/auth/otp/verify", "",
		gin.H{"email": "apaaranddhruv@gmail.com", "code": rec.Code})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "POST", "/api/v1/auth/register", "",
		gin.H{"name": "Apaar", "email": "apaaranddhruv@gmail.com", "password": "secret123"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, "POST", "/api/v1/auth/login", "",
		gin.H{"email": "apaaranddhruv@gmail.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	assert.True(t, login.User.IsAdmin)

	// The freshly issued token opens the admin routes
	w = env.do(t, "POST", "/api/v1/admin/quotes", login.Token,
		gin.H{"text": "Be still", "author": "Guru"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAddEvent(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/v1/admin/events", adminToken(t), gin.H{
		"title": "Full Moon Meditation",
		"date":  "2025-07-10",
		"time":  "19:00",
		"type":  models.EventTypeMeditation,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, "GET", "/api/v1/events", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Full Moon Meditation")
}
