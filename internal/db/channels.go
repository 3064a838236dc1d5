package db

import (
	"log"

	"yrss/internal/models"
)

// CreateChannel inserts a channel that has never been synced. last_synced
// stays at its 'epoch' default so the first refresh always fetches.
func CreateChannel(youtubeID, title, logoURL, description, uploadsPlaylistID string) (*models.Channel, error) {
	query := `
		INSERT INTO channels (youtube_id, title, logo_url, description, uploads_playlist_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`
	channel := &models.Channel{}
	err := DB.Get(channel, query, youtubeID, title, logoURL, description, uploadsPlaylistID)
	if err != nil {
		log.Printf("Error creating channel %s: %v", youtubeID, err)
		return nil, err
	}
	return channel, nil
}

func GetChannelByID(id int64) (models.Channel, error) {
	channel := models.Channel{}
	err := DB.Get(&channel, "SELECT * FROM channels WHERE id = $1", id)
	return channel, err
}

func GetChannelByYoutubeID(youtubeID string) (models.Channel, error) {
	channel := models.Channel{}
	err := DB.Get(&channel, "SELECT * FROM channels WHERE youtube_id = $1", youtubeID)
	return channel, err
}

func GetAllChannels() ([]models.Channel, error) {
	var channels []models.Channel
	err := DB.Select(&channels, "SELECT * FROM channels ORDER BY id")
	if err != nil {
		log.Printf("Error getting channels: %v", err)
		return nil, err
	}
	return channels, nil
}

// UpdateChannelMetadata writes the fetched metadata and reports whether any
// field actually differed from the stored values.
func UpdateChannelMetadata(id int64, title, logoURL, description, uploadsPlaylistID string) (bool, error) {
	query := `
		UPDATE channels
		SET title = $2, logo_url = $3, description = $4, uploads_playlist_id = $5
		WHERE id = $1
		  AND (title IS DISTINCT FROM $2
		    OR logo_url IS DISTINCT FROM $3
		    OR description IS DISTINCT FROM $4
		    OR uploads_playlist_id IS DISTINCT FROM $5)
	`
	res, err := DB.Exec(query, id, title, logoURL, description, uploadsPlaylistID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TouchChannelSynced moves last_synced to now. The guard keeps the clock
// monotonic even if two syncs of the same channel ever overlap.
func TouchChannelSynced(id int64) error {
	_, err := DB.Exec("UPDATE channels SET last_synced = NOW() WHERE id = $1 AND last_synced < NOW()", id)
	return err
}

func CountChannelSubscriptions(channelID int64) (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1", channelID)
	return count, err
}

// DeleteChannelIfUnsubscribed removes the channel only when it has no
// subscriptions, in a single statement so a concurrent subscribe cannot
// slip in between the check and the delete. The schema cascades the delete
// to the channel's videos and filters. It reports whether a row was
// deleted.
func DeleteChannelIfUnsubscribed(channelID int64) (bool, error) {
	query := `
		DELETE FROM channels
		WHERE id = $1
		  AND NOT EXISTS (SELECT 1 FROM subscriptions WHERE channel_id = $1)
	`
	res, err := DB.Exec(query, channelID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
