package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/apaaranddhruv/satsang/internal/admin"
	"github.com/apaaranddhruv/satsang/internal/auth"
	"github.com/apaaranddhruv/satsang/internal/config"
	"github.com/apaaranddhruv/satsang/internal/content"
	"github.com/apaaranddhruv/satsang/internal/logging"
	"github.com/apaaranddhruv/satsang/internal/middleware"
	"github.com/apaaranddhruv/satsang/internal/otp"
	"github.com/apaaranddhruv/satsang/internal/queue"
	"github.com/apaaranddhruv/satsang/internal/store"
	"github.com/apaaranddhruv/satsang/pkg/models"
)

// API bundles the services behind the HTTP handlers
type API struct {
	quotes *content.Library[models.Quote]
	videos *content.Library[models.Video]
	events *content.Library[models.Event]
	flow   *admin.Flow
	auth   *auth.Service
	otp    *otp.Service
	queue  *queue.Queue
	cfg    *config.Config
	log    *logging.Logger
}

func (api *API) healthCheck(c *gin.Context) {
	status := http.StatusOK
	state := "healthy"
	if !(api.quotes.Ready() && api.videos.Ready() && api.events.Ready()) {
		status = http.StatusServiceUnavailable
		state = "starting"
	}
	c.JSON(status, gin.H{
		"status": state,
		"libraries": gin.H{
			"quotes": api.quotes.Ready(),
			"videos": api.videos.Ready(),
			"events": api.events.Ready(),
		},
	})
}

// --- email verification ---

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

func (api *API) sendOTP(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	if err := api.otp.Send(c.Request.Context(), req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

type verifyRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

func (api *API) verifyOTP(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and code are required"})
		return
	}

	err := api.otp.Verify(c.Request.Context(), req.Email, req.Code)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"verified": true})
	case errors.Is(err, otp.ErrCodeExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Verification code expired"})
	case errors.Is(err, otp.ErrCodeMismatch), errors.Is(err, otp.ErrNoCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification code"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
	}
}

func (api *API) otpRemaining(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"remaining_seconds": api.otp.RemainingTime(c.Request.Context(), email),
	})
}

// --- accounts ---

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (api *API) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password are required"})
		return
	}

	user, err := api.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"user": user})
	case errors.Is(err, auth.ErrEmailNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": "Email must be verified first"})
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (api *API) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := api.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, user.IsAdmin, api.cfg.Auth.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// --- public reads ---

func (api *API) listQuotes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"quotes": api.quotes.Records()})
}

func (api *API) listVideos(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"videos": api.videos.Records()})
}

func (api *API) listEvents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": api.events.Records()})
}

// --- admin mutations ---

func (api *API) addQuote(c *gin.Context) {
	var form admin.QuoteForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	quote, err := api.flow.SubmitQuote(c.Request.Context(), form)
	if err != nil {
		api.writeSubmitError(c, err)
		return
	}

	api.publishContentEvent(c.Request.Context(), store.KindQuotes, quote.ID, quote.Text)
	c.JSON(http.StatusCreated, gin.H{"quote": quote})
}

func (api *API) addVideo(c *gin.Context) {
	var form admin.VideoForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	video, err := api.flow.SubmitVideo(c.Request.Context(), form)
	if err != nil {
		api.writeSubmitError(c, err)
		return
	}

	api.publishContentEvent(c.Request.Context(), store.KindVideos, video.ID, video.Title)
	c.JSON(http.StatusCreated, gin.H{"video": video})
}

func (api *API) addEvent(c *gin.Context) {
	var draft models.Event
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event, err := api.events.Add(c.Request.Context(), draft)
	if err != nil {
		api.writeSubmitError(c, err)
		return
	}

	api.publishContentEvent(c.Request.Context(), store.KindEvents, event.ID, event.Title)
	c.JSON(http.StatusCreated, gin.H{"event": event})
}

func (api *API) updateQuote(c *gin.Context) { updateRecord(c, api.quotes, "quote") }
func (api *API) updateVideo(c *gin.Context) { updateRecord(c, api.videos, "video") }
func (api *API) updateEvent(c *gin.Context) { updateRecord(c, api.events, "event") }
func (api *API) removeQuote(c *gin.Context) { removeRecord(c, api.quotes) }
func (api *API) removeVideo(c *gin.Context) { removeRecord(c, api.videos) }
func (api *API) removeEvent(c *gin.Context) { removeRecord(c, api.events) }

func updateRecord[T any](c *gin.Context, lib *content.Library[T], name string) {
	var partial store.Row
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, found, err := lib.Update(c.Request.Context(), c.Param("id"), partial)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update " + name})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": name + " not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{name: rec})
}

func removeRecord[T any](c *gin.Context, lib *content.Library[T]) {
	removed, err := lib.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove record"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (api *API) writeSubmitError(c *gin.Context, err error) {
	switch {
	case content.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, admin.ErrNotYouTubeURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not extract a YouTube video id from the URL"})
	case errors.Is(err, admin.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "A submission is already in progress"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save content"})
	}
}

// publishContentEvent is best effort; the API response does not wait
// on the broker
func (api *API) publishContentEvent(ctx context.Context, kind, contentID, title string) {
	if api.queue == nil {
		return
	}
	event := &queue.ContentEvent{Kind: kind, ContentID: contentID, Title: title}
	if err := api.queue.PublishContentEvent(ctx, event); err != nil {
		api.log.WithKind(kind).ErrorWithErr("failed to publish content event", err)
	}
}
