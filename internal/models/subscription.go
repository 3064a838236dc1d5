package models

import "time"

// Subscription joins a subscriber to a channel. At most one row exists per
// (subscriber, channel) pair.
type Subscription struct {
	SubscriberID int64     `db:"subscriber_id"`
	ChannelID    int64     `db:"channel_id"`
	CreatedAt    time.Time `db:"created_at"`

	// Joined channel columns, populated by listing queries.
	ChannelYoutubeID string `db:"channel_youtube_id"`
	ChannelTitle     string `db:"channel_title"`
}
