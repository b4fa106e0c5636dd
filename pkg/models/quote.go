package models

import (
	"time"
)

// Quote represents a single quote shown in the daily feed
type Quote struct {
	ID         string    `json:"id" db:"id"`
	Text       string    `json:"text" db:"text"`
	Author     string    `json:"author" db:"author"`
	Category   string    `json:"category" db:"category"`
	Reflection string    `json:"reflection,omitempty" db:"reflection"`
	DateAdded  time.Time `json:"date_added" db:"date_added"`
}

// DefaultQuoteCategory is applied when a quote is submitted without a category
const DefaultQuoteCategory = "General"
