package admin

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/apaaranddhruv/satsang/internal/content"
	"github.com/apaaranddhruv/satsang/internal/logging"
	"github.com/apaaranddhruv/satsang/pkg/models"
)

// ErrSubmissionInFlight is returned when a submit arrives while the
// previous one for the same form is still being saved
var ErrSubmissionInFlight = errors.New("submission already in progress")

// QuoteForm carries the fields of the add-quote form
type QuoteForm struct {
	Text       string `json:"text"`
	Author     string `json:"author"`
	Category   string `json:"category"`
	Reflection string `json:"reflection"`
}

// VideoForm carries the fields of the add-video form. URL is the
// pasted YouTube link, not the bare video id.
type VideoForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Flow coordinates admin content submissions. Each form allows a
// single in-flight save at a time, so a double tap cannot create
// duplicate records.
type Flow struct {
	quotes *content.Library[models.Quote]
	videos *content.Library[models.Video]
	log    *logging.Logger

	quoteBusy atomic.Bool
	videoBusy atomic.Bool
}

// NewFlow creates the admin submission flow
func NewFlow(quotes *content.Library[models.Quote], videos *content.Library[models.Video], log *logging.Logger) *Flow {
	return &Flow{
		quotes: quotes,
		videos: videos,
		log:    log.WithField("component", "admin"),
	}
}

// SubmitQuote validates the form and adds the quote to the library
func (f *Flow) SubmitQuote(ctx context.Context, form QuoteForm) (models.Quote, error) {
	var zero models.Quote

	if strings.TrimSpace(form.Text) == "" {
		return zero, &content.ValidationError{Kind: "quotes", Field: "text"}
	}
	if strings.TrimSpace(form.Author) == "" {
		return zero, &content.ValidationError{Kind: "quotes", Field: "author"}
	}

	if !f.quoteBusy.CompareAndSwap(false, true) {
		return zero, ErrSubmissionInFlight
	}
	defer f.quoteBusy.Store(false)

	quote, err := f.quotes.Add(ctx, models.Quote{
		Text:       form.Text,
		Author:     form.Author,
		Category:   form.Category,
		Reflection: form.Reflection,
	})
	if err != nil {
		return zero, err
	}

	f.log.WithField("id", quote.ID).Info("Quote submitted")
	return quote, nil
}

// SubmitVideo validates the form, extracts the YouTube id from the
// pasted URL and adds the video to the library
func (f *Flow) SubmitVideo(ctx context.Context, form VideoForm) (models.Video, error) {
	var zero models.Video

	if strings.TrimSpace(form.Title) == "" {
		return zero, &content.ValidationError{Kind: "videos", Field: "title"}
	}
	if strings.TrimSpace(form.Description) == "" {
		return zero, &content.ValidationError{Kind: "videos", Field: "description"}
	}
	if strings.TrimSpace(form.URL) == "" {
		return zero, &content.ValidationError{Kind: "videos", Field: "url"}
	}

	youtubeID, err := ExtractYouTubeID(form.URL)
	if err != nil {
		return zero, err
	}

	if !f.videoBusy.CompareAndSwap(false, true) {
		return zero, ErrSubmissionInFlight
	}
	defer f.videoBusy.Store(false)

	video, err := f.videos.Add(ctx, models.Video{
		Title:       form.Title,
		Description: form.Description,
		YouTubeID:   youtubeID,
	})
	if err != nil {
		return zero, err
	}

	f.log.WithField("id", video.ID).WithField("youtube_id", youtubeID).Info("Video submitted")
	return video, nil
}
