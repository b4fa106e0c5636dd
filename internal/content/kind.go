package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/apaaranddhruv/satsang/internal/store"
	"github.com/apaaranddhruv/satsang/pkg/models"
)

// Kind describes one content kind to the generic repository: how to
// validate a draft, how to stamp identity, and how to convert records
// to and from adapter rows. Field rules are the only thing that differs
// between kinds; everything else is shared.
type Kind[T any] interface {
	// Name is the tab name in the backing adapter
	Name() string

	// IDPrefix is prepended to the timestamp token of new ids
	IDPrefix() string

	// Normalize trims string fields, applies defaults, and validates
	// required fields. Returns a ValidationError on failure.
	Normalize(draft T) (T, error)

	// ID returns the record identifier
	ID(rec T) string

	// Stamp sets the identity fields assigned at creation
	Stamp(rec T, id string, added time.Time) T

	// ToRow converts a record to an adapter row
	ToRow(rec T) store.Row

	// FromRow converts an adapter row back to a record
	FromRow(row store.Row) (T, error)

	// Defaults is the fixed seed list used when the backing tab is empty
	Defaults() []T
}

// QuoteKind implements Kind for quotes
type QuoteKind struct{}

func (QuoteKind) Name() string     { return store.KindQuotes }
func (QuoteKind) IDPrefix() string { return "quote_" }

func (QuoteKind) Normalize(draft models.Quote) (models.Quote, error) {
	draft.Text = strings.TrimSpace(draft.Text)
	draft.Author = strings.TrimSpace(draft.Author)
	draft.Category = strings.TrimSpace(draft.Category)
	draft.Reflection = strings.TrimSpace(draft.Reflection)

	if draft.Text == "" {
		return draft, &ValidationError{Kind: store.KindQuotes, Field: "text"}
	}
	if draft.Author == "" {
		return draft, &ValidationError{Kind: store.KindQuotes, Field: "author"}
	}
	if draft.Category == "" {
		draft.Category = models.DefaultQuoteCategory
	}
	return draft, nil
}

func (QuoteKind) ID(rec models.Quote) string { return rec.ID }

func (QuoteKind) Stamp(rec models.Quote, id string, added time.Time) models.Quote {
	rec.ID = id
	rec.DateAdded = added
	return rec
}

func (QuoteKind) ToRow(rec models.Quote) store.Row {
	return store.Row{
		"id":         rec.ID,
		"text":       rec.Text,
		"author":     rec.Author,
		"category":   rec.Category,
		"reflection": rec.Reflection,
		"date_added": rec.DateAdded.UTC().Format(time.RFC3339),
	}
}

func (QuoteKind) FromRow(row store.Row) (models.Quote, error) {
	added, err := parseDateAdded(row["date_added"])
	if err != nil {
		return models.Quote{}, fmt.Errorf("quote %s: %w", row.ID(), err)
	}

	return models.Quote{
		ID:         row.ID(),
		Text:       row["text"],
		Author:     row["author"],
		Category:   row["category"],
		Reflection: row["reflection"],
		DateAdded:  added,
	}, nil
}

func (QuoteKind) Defaults() []models.Quote {
	return defaultQuotes
}

// VideoKind implements Kind for videos
type VideoKind struct{}

func (VideoKind) Name() string     { return store.KindVideos }
func (VideoKind) IDPrefix() string { return "video_" }

func (VideoKind) Normalize(draft models.Video) (models.Video, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.YouTubeID = strings.TrimSpace(draft.YouTubeID)

	if draft.Title == "" {
		return draft, &ValidationError{Kind: store.KindVideos, Field: "title"}
	}
	if draft.Description == "" {
		return draft, &ValidationError{Kind: store.KindVideos, Field: "description"}
	}
	if draft.YouTubeID == "" {
		return draft, &ValidationError{Kind: store.KindVideos, Field: "youtube_id"}
	}
	return draft, nil
}

func (VideoKind) ID(rec models.Video) string { return rec.ID }

func (VideoKind) Stamp(rec models.Video, id string, added time.Time) models.Video {
	rec.ID = id
	rec.DateAdded = added
	return rec
}

func (VideoKind) ToRow(rec models.Video) store.Row {
	return store.Row{
		"id":          rec.ID,
		"title":       rec.Title,
		"description": rec.Description,
		"youtube_id":  rec.YouTubeID,
		"date_added":  rec.DateAdded.UTC().Format(time.RFC3339),
	}
}

func (VideoKind) FromRow(row store.Row) (models.Video, error) {
	added, err := parseDateAdded(row["date_added"])
	if err != nil {
		return models.Video{}, fmt.Errorf("video %s: %w", row.ID(), err)
	}

	return models.Video{
		ID:          row.ID(),
		Title:       row["title"],
		Description: row["description"],
		YouTubeID:   row["youtube_id"],
		DateAdded:   added,
	}, nil
}

func (VideoKind) Defaults() []models.Video {
	return defaultVideos
}

// EventKind implements Kind for calendar events.
// Events are read-only reference data; Normalize still validates so a
// direct repository call cannot store a blank entry.
type EventKind struct{}

func (EventKind) Name() string     { return store.KindEvents }
func (EventKind) IDPrefix() string { return "event_" }

func (EventKind) Normalize(draft models.Event) (models.Event, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Date = strings.TrimSpace(draft.Date)
	draft.Time = strings.TrimSpace(draft.Time)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Location = strings.TrimSpace(draft.Location)
	draft.Type = strings.TrimSpace(draft.Type)

	if draft.Title == "" {
		return draft, &ValidationError{Kind: store.KindEvents, Field: "title"}
	}
	if draft.Date == "" {
		return draft, &ValidationError{Kind: store.KindEvents, Field: "date"}
	}
	if draft.Type == "" {
		return draft, &ValidationError{Kind: store.KindEvents, Field: "type"}
	}
	return draft, nil
}

func (EventKind) ID(rec models.Event) string { return rec.ID }

func (EventKind) Stamp(rec models.Event, id string, added time.Time) models.Event {
	rec.ID = id
	return rec
}

func (EventKind) ToRow(rec models.Event) store.Row {
	return store.Row{
		"id":          rec.ID,
		"title":       rec.Title,
		"date":        rec.Date,
		"time":        rec.Time,
		"description": rec.Description,
		"location":    rec.Location,
		"type":        rec.Type,
	}
}

func (EventKind) FromRow(row store.Row) (models.Event, error) {
	return models.Event{
		ID:          row.ID(),
		Title:       row["title"],
		Date:        row["date"],
		Time:        row["time"],
		Description: row["description"],
		Location:    row["location"],
		Type:        row["type"],
	}, nil
}

func (EventKind) Defaults() []models.Event {
	return defaultEvents
}

func parseDateAdded(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	added, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed date_added %q: %w", value, err)
	}
	return added, nil
}
