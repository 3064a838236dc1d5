package db

import (
	"log"

	"yrss/internal/models"
)

// CreateFilter stores a title filter. Callers must compile-check the
// pattern first; the store never holds a pattern that does not compile.
func CreateFilter(subscriberID, channelID int64, pattern string, whitelist bool) (*models.Filter, error) {
	query := `
		INSERT INTO filters (subscriber_id, channel_id, pattern, whitelist)
		VALUES ($1, $2, $3, $4)
		RETURNING id, subscriber_id, channel_id, pattern, whitelist, created_at
	`
	filter := &models.Filter{}
	err := DB.Get(filter, query, subscriberID, channelID, pattern, whitelist)
	if err != nil {
		log.Printf("Error creating filter for subscriber %d: %v", subscriberID, err)
		return nil, err
	}
	return filter, nil
}

func DeleteFilter(subscriberID, filterID int64) error {
	query := `
		DELETE FROM filters
		WHERE id = $1 AND subscriber_id = $2
	`
	_, err := DB.Exec(query, filterID, subscriberID)
	if err != nil {
		log.Printf("Error deleting filter %d for subscriber %d: %v", filterID, subscriberID, err)
		return err
	}
	return nil
}

// GetFiltersForChannel returns the subscriber's filters for one channel in
// insertion order, for the filter engine.
func GetFiltersForChannel(subscriberID, channelID int64) ([]models.Filter, error) {
	query := `
		SELECT id, subscriber_id, channel_id, pattern, whitelist, created_at
		FROM filters
		WHERE subscriber_id = $1 AND channel_id = $2
		ORDER BY id
	`
	var filters []models.Filter
	err := DB.Select(&filters, query, subscriberID, channelID)
	if err != nil {
		log.Printf("Error getting filters for subscriber %d channel %d: %v", subscriberID, channelID, err)
		return nil, err
	}
	return filters, nil
}

func GetFiltersBySubscriberID(subscriberID int64) ([]models.Filter, error) {
	query := `
		SELECT f.id, f.subscriber_id, f.channel_id, f.pattern, f.whitelist, f.created_at,
		       c.title AS channel_title
		FROM filters f
		JOIN channels c ON c.id = f.channel_id
		WHERE f.subscriber_id = $1
		ORDER BY LOWER(c.title), f.id
	`
	var filters []models.Filter
	err := DB.Select(&filters, query, subscriberID)
	if err != nil {
		log.Printf("Error getting filters for subscriber %d: %v", subscriberID, err)
		return nil, err
	}
	return filters, nil
}
