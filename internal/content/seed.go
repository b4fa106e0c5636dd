package content

import (
	"time"

	"github.com/apaaranddhruv/satsang/pkg/models"
)

// Seed data used when a backing tab is empty, so first-run screens are
// never blank. Ids and dates are fixed; seeding is idempotent because the
// repository only seeds an empty tab.

var seedDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

var defaultQuotes = []models.Quote{
	{
		ID:        "quote_1",
		Text:      "Silence is not the absence of sound, but the presence of stillness within.",
		Author:    "Guruji",
		Category:  "Meditation",
		DateAdded: seedDate,
	},
	{
		ID:         "quote_2",
		Text:       "The mind is a wonderful servant but a terrible master.",
		Author:     "Guruji",
		Category:   "Mind",
		Reflection: "Watch the thought, do not become it.",
		DateAdded:  seedDate.Add(time.Minute),
	},
	{
		ID:        "quote_3",
		Text:      "Service to others is the rent we pay for living on this earth.",
		Author:    "Guruji",
		Category:  "Seva",
		DateAdded: seedDate.Add(2 * time.Minute),
	},
	{
		ID:        "quote_4",
		Text:      "Gratitude turns what we have into enough.",
		Author:    "Guruji",
		Category:  "General",
		DateAdded: seedDate.Add(3 * time.Minute),
	},
}

var defaultVideos = []models.Video{
	{
		ID:          "video_1",
		Title:       "Morning Satsang: The Art of Letting Go",
		Description: "A guided reflection on surrender and acceptance.",
		YouTubeID:   "dQw4w9WgXcQ",
		DateAdded:   seedDate,
	},
	{
		ID:          "video_2",
		Title:       "Evening Meditation for Beginners",
		Description: "A 20-minute breath-centered practice.",
		YouTubeID:   "ZToicYcHIOU",
		DateAdded:   seedDate.Add(time.Minute),
	},
}

var defaultEvents = []models.Event{
	{
		ID:          "event_1",
		Title:       "Weekly Group Meditation",
		Date:        "2025-02-02",
		Time:        "07:00",
		Description: "Open sitting followed by a short discourse.",
		Location:    "Main Hall",
		Type:        models.EventTypeMeditation,
	},
	{
		ID:          "event_2",
		Title:       "Bhagavad Gita Study Circle",
		Date:        "2025-02-09",
		Time:        "18:30",
		Description: "Chapter two, verses one through twenty.",
		Location:    "Library",
		Type:        models.EventTypeTeaching,
	},
	{
		ID:          "event_3",
		Title:       "Guru Purnima Celebration",
		Date:        "2025-07-10",
		Time:        "10:00",
		Description: "Full-day program with bhajans and prasad.",
		Type:        models.EventTypeCelebration,
	},
	{
		ID:          "event_4",
		Title:       "Silent Weekend Retreat",
		Date:        "2025-03-21",
		Time:        "16:00",
		Description: "Two days of noble silence and guided practice.",
		Location:    "Riverside Ashram",
		Type:        models.EventTypeRetreat,
	},
}
