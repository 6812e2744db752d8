package yt

import "regexp"

var ytRegex = regexp.MustCompile(`(?i)^https?://((www|m|music)\.)?(youtube\.com/(watch\?|shorts/|embed/|live/)|youtu\.be/)`)

// IsYouTubeURL indique si s désigne une vidéo YouTube (moteur natif possible).
func IsYouTubeURL(s string) bool {
	return ytRegex.MatchString(s)
}
