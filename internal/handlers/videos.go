package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"yrss/internal/db"
)

// GetVideos renders the subscriber's merged, filtered video list.
func (h *Handlers) GetVideos(w http.ResponseWriter, r *http.Request) {
	subscriber := subscriberFrom(r)

	videos, err := h.assembler.Assemble(subscriber.ID, h.cfg.VideosPerPage)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, "videos.html", map[string]any{
		"Title":  "Your videos",
		"Videos": videos,
	})
}

// GetChannelVideos renders one channel's uploads. Shorts are excluded by
// default, matching the channel feed.
func (h *Handlers) GetChannelVideos(w http.ResponseWriter, r *http.Request) {
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

	h.render(w, "videos.html", map[string]any{
		"Title":  channel.Title,
		"Videos": videos,
	})
}
