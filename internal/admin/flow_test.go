package admin

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/apaaranddhruv/satsang/internal/content"
	"github.com/apaaranddhruv/satsang/internal/logging"
	"github.com/apaaranddhruv/satsang/internal/store"
	"github.com/apaaranddhruv/satsang/pkg/models"
)

func newTestFlow(t *testing.T) *Flow {
	t.Helper()
	log, err := logging.NewLogger(logging.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	adapter := store.NewMemory()
	quotes := content.NewLibrary[models.Quote](
		content.NewRepository[models.Quote](content.QuoteKind{}, adapter, log), log)
	videos := content.NewLibrary[models.Video](
		content.NewRepository[models.Video](content.VideoKind{}, adapter, log), log)
	quotes.Init(context.Background())
	videos.Init(context.Background())
	return NewFlow(quotes, videos, log)
}

func TestSubmitQuote(t *testing.T) {
	flow := newTestFlow(t)

	quote, err := flow.SubmitQuote(context.Background(), QuoteForm{
		Text:   "  The mind is everything  ",
		Author: "Buddha",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if quote.Text != "The mind is everything" {
		t.Errorf("expected trimmed text, got %q", quote.Text)
	}
	if quote.Category != models.DefaultQuoteCategory {
		t.Errorf("expected default category, got %q", quote.Category)
	}
	if !strings.HasPrefix(quote.ID, "quote_") {
		t.Errorf("unexpected id %q", quote.ID)
	}
}

func TestSubmitQuoteValidation(t *testing.T) {
	flow := newTestFlow(t)

	tests := []struct {
		name string
		form QuoteForm
	}{
		{"empty text", QuoteForm{Text: "   ", Author: "Buddha"}},
		{"empty author", QuoteForm{Text: "Be still", Author: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := flow.SubmitQuote(context.Background(), tt.form)
			if !content.IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSubmitVideo(t *testing.T) {
	flow := newTestFlow(t)

	video, err := flow.SubmitVideo(context.Background(), VideoForm{
		Title:       "Morning Meditation",
		Description: "Guided session",
		URL:         "https://www.youtube.com/watch?v=ABC123",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if video.YouTubeID != "ABC123" {
		t.Errorf("expected extracted id ABC123, got %q", video.YouTubeID)
	}
	if !strings.HasPrefix(video.ID, "video_") {
		t.Errorf("unexpected id %q", video.ID)
	}
}

func TestSubmitVideoRejectsBadURL(t *testing.T) {
	flow := newTestFlow(t)

	_, err := flow.SubmitVideo(context.Background(), VideoForm{
		Title:       "Morning Meditation",
		Description: "Guided session",
		URL:         "https://vimeo.com/12345",
	})
	if !errors.Is(err, ErrNotYouTubeURL) {
		t.Fatalf("expected ErrNotYouTubeURL, got %v", err)
	}
}

func TestSubmitVideoValidation(t *testing.T) {
	flow := newTestFlow(t)

	tests := []struct {
		name string
		form VideoForm
	}{
		{"empty title", VideoForm{Description: "d", URL: "https://youtu.be/X1"}},
		{"empty description", VideoForm{Title: "t", URL: "https://youtu.be/X1"}},
		{"empty url", VideoForm{Title: "t", Description: "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := flow.SubmitVideo(context.Background(), tt.form)
			if !content.IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSubmitQuoteSingleFlight(t *testing.T) {
	flow := newTestFlow(t)
	flow.quoteBusy.Store(true)

	_, err := flow.SubmitQuote(context.Background(), QuoteForm{Text: "Be still", Author: "Guru"})
	if !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}

	flow.quoteBusy.Store(false)
	if _, err := flow.SubmitQuote(context.Background(), QuoteForm{Text: "Be still", Author: "Guru"}); err != nil {
		t.Fatalf("submit after release failed: %v", err)
	}
}

func TestConcurrentQuoteSubmissions(t *testing.T) {
	flow := newTestFlow(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var accepted, rejected int

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := flow.SubmitQuote(context.Background(), QuoteForm{Text: "Be still", Author: "Guru"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, ErrSubmissionInFlight):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if accepted == 0 {
		t.Error("expected at least one submission to succeed")
	}
	if accepted+rejected != 10 {
		t.Errorf("accepted=%d rejected=%d, want total 10", accepted, rejected)
	}
}
