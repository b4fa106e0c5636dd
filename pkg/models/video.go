package models

import (
	"time"
)

// Video represents a YouTube-hosted talk in the video feed.
// Only the extracted YouTube id is stored, never the raw URL.
type Video struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	YouTubeID   string    `json:"youtube_id" db:"youtube_id"`
	DateAdded   time.Time `json:"date_added" db:"date_added"`
}
