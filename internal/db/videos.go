package db

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"yrss/internal/models"
)

// VideoUpsert carries the fetched fields merged by UpsertVideo.
type VideoUpsert struct {
	YoutubeID    string
	Title        string
	Description  string
	ThumbnailURL string
	PublishedAt  time.Time
}

// UpsertVideo merges one fetched video into the store keyed by
// (channel_id, youtube_id). It reports whether a new row was created and
// whether an existing row was modified; both are false when the stored row
// already matches the fetched data. published_at is never overwritten.
func UpsertVideo(channelID int64, v VideoUpsert) (created, updated bool, err error) {
	query := `
		INSERT INTO videos (channel_id, youtube_id, title, description, thumbnail_url, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (channel_id, youtube_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			thumbnail_url = EXCLUDED.thumbnail_url,
			updated_at = NOW()
		WHERE videos.title IS DISTINCT FROM EXCLUDED.title
		   OR videos.description IS DISTINCT FROM EXCLUDED.description
		   OR videos.thumbnail_url IS DISTINCT FROM EXCLUDED.thumbnail_url
		RETURNING (xmax = 0)
	`
	err = DB.Get(&created, query, channelID, v.YoutubeID, v.Title, v.Description, v.ThumbnailURL, v.PublishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Row exists and no field differs.
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return created, !created, nil
}

// SetVideoShort records the short-form classification for a video.
func SetVideoShort(channelID int64, youtubeID string, short bool) error {
	_, err := DB.Exec("UPDATE videos SET short = $3 WHERE channel_id = $1 AND youtube_id = $2", channelID, youtubeID, short)
	return err
}

// GetVideosByChannelID returns one page of a channel's videos, newest
// first. Unless includeShorts is set, videos classified as shorts are
// skipped; unclassified videos are always included.
func GetVideosByChannelID(channelID int64, includeShorts bool, limit, offset int) ([]models.Video, error) {
	query := `
		SELECT * FROM videos
		WHERE channel_id = $1 AND ($2 OR short IS DISTINCT FROM TRUE)
		ORDER BY published_at DESC
		LIMIT $3 OFFSET $4
	`
	var videos []models.Video
	err := DB.Select(&videos, query, channelID, includeShorts, limit, offset)
	if err != nil {
		log.Printf("Error getting videos for channel %d: %v", channelID, err)
		return nil, err
	}
	return videos, nil
}

// GetVideosBySubscriberID returns one page of videos across all of the
// subscriber's subscriptions, newest first.
func GetVideosBySubscriberID(subscriberID int64, limit, offset int) ([]models.Video, error) {
	query := `
		SELECT v.*
		FROM videos v
		JOIN subscriptions s ON s.channel_id = v.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY v.published_at DESC
		LIMIT $2 OFFSET $3
	`
	var videos []models.Video
	err := DB.Select(&videos, query, subscriberID, limit, offset)
	if err != nil {
		log.Printf("Error getting videos for subscriber %d: %v", subscriberID, err)
		return nil, err
	}
	return videos, nil
}

// GetUnclassifiedVideos returns recent videos whose short-form flag has not
// been determined yet, for the backfill task.
func GetUnclassifiedVideos(limit int) ([]models.Video, error) {
	query := `
		SELECT * FROM videos
		WHERE short IS NULL
		ORDER BY published_at DESC
		LIMIT $1
	`
	var videos []models.Video
	err := DB.Select(&videos, query, limit)
	if err != nil {
		log.Printf("Error getting unclassified videos: %v", err)
		return nil, err
	}
	return videos, nil
}
