package admin

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNotYouTubeURL is returned when no video id can be extracted
var ErrNotYouTubeURL = errors.New("not a recognizable YouTube URL")

// Tried in order; the first match wins
var youtubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/shorts/)([^&\n?#]+)`),
	regexp.MustCompile(`(?:youtube\.com/embed/)([^&\n?#]+)`),
}

// ExtractYouTubeID pulls the video id out of the common YouTube URL
// shapes: watch?v=, youtu.be/, shorts/ and embed/. Query parameters
// and fragments after the id are dropped.
func ExtractYouTubeID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrNotYouTubeURL
	}
	for _, pattern := range youtubePatterns {
		if m := pattern.FindStringSubmatch(rawURL); len(m) == 2 && m[1] != "" {
			return m[1], nil
		}
	}
	return "", ErrNotYouTubeURL
}
