package models

import "time"

// Channel is an upstream YouTube publisher tracked by the store. Rows are
// shared between subscribers; a channel with no subscriptions is reclaimed
// by the prune sweep.
type Channel struct {
	ID                int64     `db:"id"`
	YoutubeID         string    `db:"youtube_id"`
	Title             string    `db:"title"`
	LogoURL           string    `db:"logo_url"`
	Description       string    `db:"description"`
	UploadsPlaylistID string    `db:"uploads_playlist_id"`
	LastSynced        time.Time `db:"last_synced"`
	CreatedAt         time.Time `db:"created_at"`
}

// URL returns the public channel page.
func (c *Channel) URL() string {
	return "https://www.youtube.com/channel/" + c.YoutubeID
}
