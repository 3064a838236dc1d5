package models

import "time"

// Video is one upload belonging to a channel. (channel_id, youtube_id) is
// unique; re-fetching the same video updates the row in place. PublishedAt
// is immutable once set.
type Video struct {
	ID           int64     `db:"id"`
	ChannelID    int64     `db:"channel_id"`
	YoutubeID    string    `db:"youtube_id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	ThumbnailURL string    `db:"thumbnail_url"`
	PublishedAt  time.Time `db:"published_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	// Short is nil until the short-form classification has run.
	Short *bool `db:"short"`
}

// WatchURL returns the public watch page for the video.
func (v *Video) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.YoutubeID
}
