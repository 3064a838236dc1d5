package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"yrss/internal/db"
	"yrss/internal/filter"
)

func (h *Handlers) GetFilters(w http.ResponseWriter, r *http.Request) {
	subscriber := subscriberFrom(r)

	filters, err := db.GetFiltersBySubscriberID(subscriber.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	subscriptions, err := db.GetSubscriptionsBySubscriberID(subscriber.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, "filters.html", map[string]any{
		"Subscriber":    subscriber,
		"Filters":       filters,
		"Subscriptions": subscriptions,
	})
}

// PostFilter stores a new title filter. The pattern is compile-checked
// before it is persisted; a malformed pattern never reaches the store.
func (h *Handlers) PostFilter(w http.ResponseWriter, r *http.Request) {
	subscriber := subscriberFrom(r)

	youtubeID := r.FormValue("youtube_id")
	pattern := r.FormValue("pattern")
	whitelist := r.FormValue("whitelist") != ""

	if youtubeID == "" || pattern == "" {
		http.Error(w, "Channel and pattern are required", http.StatusBadRequest)
		return
	}

	if err := filter.ValidatePattern(pattern); err != nil {
		var verr *filter.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Invalid pattern", http.StatusBadRequest)
		return
	}

	channel, err := db.GetChannelByYoutubeID(youtubeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Unknown channel", http.StatusNotFound)
			return
		}
		log.Printf("Error looking up channel %s: %v", youtubeID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := db.CreateFilter(subscriber.ID, channel.ID, pattern, whitelist); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/filters", http.StatusSeeOther)
}

func (h *Handlers) DeleteFilter(w http.ResponseWriter, r *http.Request) {
	subscriber := subscriberFrom(r)

	filterID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid filter ID", http.StatusBadRequest)
		return
	}

	if err := db.DeleteFilter(subscriber.ID, filterID); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
