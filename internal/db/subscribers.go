package db

import (
	"log"

	"github.com/google/uuid"
	"yrss/internal/models"
)

// CreateSubscriber registers a new account. The feed token is generated
// here, once; there is no code path that updates it afterwards.
func CreateSubscriber(email, passwordHash string) (*models.Subscriber, error) {
	query := `
		INSERT INTO subscribers (email, password_hash, feed_token)
		VALUES ($1, $2, $3)
		RETURNING *
	`
	subscriber := &models.Subscriber{}
	err := DB.Get(subscriber, query, email, passwordHash, uuid.NewString())
	if err != nil {
		log.Printf("Error creating subscriber %s: %v", email, err)
		return nil, err
	}
	return subscriber, nil
}

func GetSubscriberByEmail(email string) (models.Subscriber, error) {
	subscriber := models.Subscriber{}
	err := DB.Get(&subscriber, "SELECT * FROM subscribers WHERE email = $1", email)
	return subscriber, err
}

func GetSubscriberByFeedToken(token string) (models.Subscriber, error) {
	subscriber := models.Subscriber{}
	err := DB.Get(&subscriber, "SELECT * FROM subscribers WHERE feed_token = $1", token)
	return subscriber, err
}
