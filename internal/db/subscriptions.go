package db

import (
	"log"

	"yrss/internal/models"
)

// AddSubscription subscribes the subscriber to a channel. Subscribing twice
// is a no-op.
func AddSubscription(subscriberID, channelID int64) error {
	query := `
		INSERT INTO subscriptions (subscriber_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`
	_, err := DB.Exec(query, subscriberID, channelID)
	if err != nil {
		log.Printf("Error adding subscription for subscriber %d: %v", subscriberID, err)
		return err
	}
	return nil
}

func DeleteSubscription(subscriberID, channelID int64) error {
	query := `
		DELETE FROM subscriptions
		WHERE subscriber_id = $1 AND channel_id = $2
	`
	_, err := DB.Exec(query, subscriberID, channelID)
	if err != nil {
		log.Printf("Error deleting subscription for subscriber %d: %v", subscriberID, err)
		return err
	}
	return nil
}

func GetSubscriptionsBySubscriberID(subscriberID int64) ([]models.Subscription, error) {
	query := `
		SELECT s.subscriber_id, s.channel_id, s.created_at,
		       c.youtube_id AS channel_youtube_id, c.title AS channel_title
		FROM subscriptions s
		JOIN channels c ON c.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY LOWER(c.title)
	`
	var subscriptions []models.Subscription
	err := DB.Select(&subscriptions, query, subscriberID)
	if err != nil {
		log.Printf("Error getting subscriptions for subscriber %d: %v", subscriberID, err)
		return nil, err
	}
	return subscriptions, nil
}
