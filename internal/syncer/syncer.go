// Package syncer implements the TTL-gated channel refresh cycle: deciding
// when a channel is stale, fetching its current state, and merging it into
// the store without duplicating or losing videos.
package syncer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"yrss/internal/db"
	"yrss/internal/models"
	"yrss/internal/youtube"
)

// Result reports what a sync did to the store.
type Result int

const (
	Unchanged Result = iota
	Changed
)

func (r Result) String() string {
	if r == Changed {
		return "changed"
	}
	return "unchanged"
}

// ChannelAPI is the slice of the YouTube client the syncer needs. It's
// implemented by *youtube.Client, and can be stubbed for testing.
type ChannelAPI interface {
	FetchChannel(ctx context.Context, youtubeID string) (*youtube.ChannelInfo, error)
	FetchRecentVideos(ctx context.Context, playlistID string, n int) ([]youtube.VideoInfo, error)
	CheckShort(ctx context.Context, videoID string) (bool, error)
}

// Syncer refreshes channels against the upstream API. Safe for concurrent
// use; syncs of the same channel are serialized by a per-channel lock so at
// most one is in flight at a time.
type Syncer struct {
	api             ChannelAPI
	refreshInterval time.Duration
	videosPerFetch  int

	locks sync.Map // channel id -> *sync.Mutex
}

func New(api ChannelAPI, refreshInterval time.Duration, videosPerFetch int) *Syncer {
	return &Syncer{
		api:             api,
		refreshInterval: refreshInterval,
		videosPerFetch:  videosPerFetch,
	}
}

func (s *Syncer) lockChannel(id int64) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Sync refreshes one channel. It returns Unchanged without touching the
// network when the channel was synced within the refresh interval, unless
// force is set. On fetch success last_synced always moves to now, whether
// or not anything changed; on fetch failure it is left untouched so the
// next sweep retries immediately instead of waiting out a fresh interval.
//
// Sync is idempotent: a second call with no intervening upstream change
// returns Unchanged and leaves the store identical.
func (s *Syncer) Sync(ctx context.Context, channelID int64, force bool) (Result, error) {
	mu := s.lockChannel(channelID)
	mu.Lock()
	defer mu.Unlock()

	// Reload under the lock so a sync that just finished on another
	// goroutine is visible to the staleness check.
	channel, err := db.GetChannelByID(channelID)
	if err != nil {
		return Unchanged, fmt.Errorf("failed to load channel %d: %w", channelID, err)
	}

	if !force && time.Since(channel.LastSynced) < s.refreshInterval {
		return Unchanged, nil
	}

	info, err := s.api.FetchChannel(ctx, channel.YoutubeID)
	if err != nil {
		return Unchanged, fmt.Errorf("failed to fetch channel %s: %w", channel.YoutubeID, err)
	}

	videos, err := s.api.FetchRecentVideos(ctx, info.UploadsPlaylistID, s.videosPerFetch)
	if err != nil {
		return Unchanged, fmt.Errorf("failed to fetch videos for channel %s: %w", channel.YoutubeID, err)
	}

	changed, err := db.UpdateChannelMetadata(channel.ID, info.Title, info.LogoURL, info.Description, info.UploadsPlaylistID)
	if err != nil {
		return Unchanged, fmt.Errorf("failed to update channel %s: %w", channel.YoutubeID, err)
	}

	for _, v := range videos {
		created, updated, err := db.UpsertVideo(channel.ID, db.VideoUpsert{
			YoutubeID:    v.YoutubeID,
			Title:        v.Title,
			Description:  v.Description,
			ThumbnailURL: v.ThumbnailURL,
			PublishedAt:  v.PublishedAt,
		})
		if err != nil {
			// One bad row must not lose the rest of the batch.
			log.Printf("Error upserting video %s for channel %s: %v", v.YoutubeID, channel.YoutubeID, err)
			continue
		}
		if created || updated {
			changed = true
		}
		if created {
			s.ClassifyShort(ctx, channel.ID, v.YoutubeID)
		}
	}

	if err := db.TouchChannelSynced(channel.ID); err != nil {
		return Unchanged, fmt.Errorf("failed to touch channel %s: %w", channel.YoutubeID, err)
	}

	if changed {
		return Changed, nil
	}
	return Unchanged, nil
}

// ClassifyShort looks up and stores the short-form flag for one video. It
// is best effort: a failure only leaves the video unclassified and never
// aborts the caller.
func (s *Syncer) ClassifyShort(ctx context.Context, channelID int64, youtubeID string) {
	short, err := s.api.CheckShort(ctx, youtubeID)
	if err != nil {
		log.Printf("Error classifying video %s: %v", youtubeID, err)
		return
	}
	if err := db.SetVideoShort(channelID, youtubeID, short); err != nil {
		log.Printf("Error storing short flag for video %s: %v", youtubeID, err)
	}
}

// EnsureChannel returns the stored channel for youtubeID, creating it on
// first reference. A newly created channel gets an immediate forced sync so
// its videos are available right away.
func (s *Syncer) EnsureChannel(ctx context.Context, youtubeID string) (*models.Channel, error) {
	channel, err := db.GetChannelByYoutubeID(youtubeID)
	if err == nil {
		return &channel, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up channel %s: %w", youtubeID, err)
	}

	info, err := s.api.FetchChannel(ctx, youtubeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel %s: %w", youtubeID, err)
	}

	created, err := db.CreateChannel(info.YoutubeID, info.Title, info.LogoURL, info.Description, info.UploadsPlaylistID)
	if err != nil {
		return nil, fmt.Errorf("failed to create channel %s: %w", youtubeID, err)
	}

	if _, err := s.Sync(ctx, created.ID, true); err != nil {
		// The channel row exists; its videos arrive on the next sweep.
		log.Printf("Error running initial sync for channel %s: %v", youtubeID, err)
	}
	return created, nil
}
