package models

import "time"

// Subscriber is an account. FeedToken is the opaque key in the personalized
// feed URL; it is issued once at registration and never changes.
type Subscriber struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FeedToken    string    `db:"feed_token"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
