package models

import "time"

// Filter is a per-subscriber, per-channel title rule. A whitelist filter
// excludes videos whose titles do not match; a blacklist filter excludes
// videos whose titles do. Patterns are compile-checked before they are
// stored.
type Filter struct {
	ID           int64     `db:"id"`
	SubscriberID int64     `db:"subscriber_id"`
	ChannelID    int64     `db:"channel_id"`
	Pattern      string    `db:"pattern"`
	Whitelist    bool      `db:"whitelist"`
	CreatedAt    time.Time `db:"created_at"`

	// Joined channel column, populated by listing queries.
	ChannelTitle string `db:"channel_title"`
}
