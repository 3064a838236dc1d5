package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gorilla/mux"
	"yrss/internal/db"
	"yrss/internal/youtube"
	"yrss/pkg/tasks"
)

// opmlChannelRe extracts channel ids from YouTube's subscription export.
var opmlChannelRe = regexp.MustCompile(`xmlUrl="https://www.youtube.com/feeds/videos.xml\?channel_id=([^"]+)"`)

func (h *Handlers) GetSubscriptions(w http.ResponseWriter, r *http.Request) {
	subscriber := subscriberFrom(r)

	subscriptions, err := db.GetSubscriptionsBySubscriberID(subscriber.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, "subscriptions.html", map[string]any{
		"Subscriber":    subscriber,
		"Subscriptions": subscriptions,
	})
}

// PostSubscription subscribes to a channel by id or legacy username, or
// imports an OPML subscription export.
func (h *Handlers) PostSubscription(w http.ResponseWriter, r *http.Request) {
	if file, _, err := r.FormFile("opml"); err == nil {
		defer file.Close()
		h.importOPML(w, r, file)
		return
	}

	subscriber := subscriberFrom(r)

	idOrUsername := r.FormValue("channel")
	if idOrUsername == "" {
		http.Error(w, "Channel is required", http.StatusBadRequest)
		return
	}

	youtubeID, err := h.resolver.ResolveChannelID(r.Context(), idOrUsername)
	if err != nil {
		if errors.Is(err, youtube.ErrChannelNotFound) {
			http.Error(w, "Channel not found", http.StatusNotFound)
			return
		}
		log.Printf("Error resolving channel %q: %v", idOrUsername, err)
		http.Error(w, "Could not look up channel", http.StatusBadGateway)
		return
	}

	channel, err := h.syncer.EnsureChannel(r.Context(), youtubeID)
	if err != nil {
		if errors.Is(err, youtube.ErrChannelNotFound) {
			http.Error(w, "Channel not found", http.StatusNotFound)
			return
		}
		log.Printf("Error ensuring channel %s: %v", youtubeID, err)
		http.Error(w, "Could not fetch channel", http.StatusBadGateway)
		return
	}

	if err := db.AddSubscription(subscriber.ID, channel.ID); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Queue a refresh; the TTL gate makes this a no-op for a channel that
	// was just created and synced.
	task, err := tasks.NewSyncChannelTask(channel.ID, false)
	if err != nil {
		log.Printf("Error creating sync task: %v", err)
	} else if _, err := h.asynqClient.Enqueue(task); err != nil {
		log.Printf("Error enqueuing sync task: %v", err)
	}

	http.Redirect(w, r, "/subscriptions", http.StatusSeeOther)
}

// importOPML subscribes to every channel referenced in the uploaded file.
// Channels are created lazily on their first sync; bad entries are skipped.
func (h *Handlers) importOPML(w http.ResponseWriter, r *http.Request, file io.Reader) {
	subscriber := subscriberFrom(r)

	body, err := io.ReadAll(io.LimitReader(file, 1<<20))
	if err != nil {
		http.Error(w, "Could not read file", http.StatusBadRequest)
		return
	}

	for _, match := range opmlChannelRe.FindAllStringSubmatch(string(body), -1) {
		youtubeID := match[1]

		channel, err := h.syncer.EnsureChannel(r.Context(), youtubeID)
		if err != nil {
			log.Printf("Error importing channel %s: %v", youtubeID, err)
			continue
		}
		if err := db.AddSubscription(subscriber.ID, channel.ID); err != nil {
			log.Printf("Error subscribing to imported channel %s: %v", youtubeID, err)
		}
	}

	http.Redirect(w, r, "/subscriptions", http.StatusSeeOther)
}

func (h *Handlers) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	subscriber := subscriberFrom(r)

	channelID, err := strconv.ParseInt(mux.Vars(r)["channelID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid channel ID", http.StatusBadRequest)
		return
	}

	if err := db.DeleteSubscription(subscriber.ID, channelID); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
