package download

import (
	"fmt"
	"regexp"
)

// YouTube URL shapes recognized by ExtractVideoID. Video IDs are exactly
// eleven characters of [A-Za-z0-9_-].
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtu\.be/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/shorts/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/embed/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/v/)([A-Za-z0-9_-]{11})`),
}

// ExtractVideoID pulls the 11-character video ID out of a YouTube URL.
func ExtractVideoID(url string) (string, error) {
	for _, re := range urlPatterns {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%s: %w", url, ErrInvalidURL)
}

// IsYouTubeURL reports whether the URL points at a YouTube video.
func IsYouTubeURL(url string) bool {
	_, err := ExtractVideoID(url)
	return err == nil
}
