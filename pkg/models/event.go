package models

// Event represents an entry in the satsang calendar.
// Events are read-only reference data seeded at startup.
type Event struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Date        string `json:"date" db:"date"` // YYYY-MM-DD
	Time        string `json:"time" db:"time"`
	Description string `json:"description" db:"description"`
	Location    string `json:"location,omitempty" db:"location"`
	Type        string `json:"type" db:"type"`
}

// EventType constants
const (
	EventTypeMeditation  = "meditation"
	EventTypeTeaching    = "teaching"
	EventTypeCelebration = "celebration"
	EventTypeRetreat     = "retreat"
)
