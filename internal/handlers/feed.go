package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"yrss/internal/db"
	"yrss/internal/feed"
)

// GetPersonalFeed serves the merged multi-channel Atom feed addressed by
// the subscriber's opaque feed token. No session is required; the token is
// the credential.
func (h *Handlers) GetPersonalFeed(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	subscriber, err := db.GetSubscriberByFeedToken(token)
	if err != nil {
		http.Error(w, "Feed not found", http.StatusNotFound)
		return
	}

	videos, err := h.assembler.Assemble(subscriber.ID, h.cfg.VideosPerPage)
	if err != nil {
		log.Printf("Error assembling feed for subscriber %d: %v", subscriber.ID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	atom, err := feed.GeneratePersonalAtom(&subscriber, videos, h.cfg.BaseURL)
	if err != nil {
		log.Printf("Error generating feed for subscriber %d: %v", subscriber.ID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/atom+xml")
	w.Write([]byte(atom))
}

// GetChannelFeed serves a single channel's Atom feed. Shorts are excluded
// by default; pass ?shorts=1 to include them.
func (h *Handlers) GetChannelFeed(w http.ResponseWriter, r *http.Request) {
	youtubeID := mux.Vars(r)["youtubeID"]

	channel, err := db.GetChannelByYoutubeID(youtubeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Channel not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	includeShorts := r.URL.Query().Get("shorts") == "1"
	videos, err := db.GetVideosByChannelID(channel.ID, includeShorts, h.cfg.VideosPerPage, 0)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	atom, err := feed.GenerateChannelAtom(&channel, videos)
	if err != nil {
		log.Printf("Error generating feed for channel %s: %v", youtubeID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/atom+xml")
	w.Write([]byte(atom))
}
