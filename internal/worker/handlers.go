package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"yrss/internal/db"
	"yrss/internal/syncer"
	"yrss/pkg/tasks"
)

type TaskHandler struct {
	syncer      *syncer.Syncer
	asynqClient tasks.TaskEnqueuer
}

func NewTaskHandler(s *syncer.Syncer, client tasks.TaskEnqueuer) *TaskHandler {
	return &TaskHandler{syncer: s, asynqClient: client}
}

// HandleSyncChannelTask refreshes a single channel. Retrying is left to the
// next update sweep: a failed sync leaves the channel's clock untouched, so
// it is picked up again immediately.
func (h *TaskHandler) HandleSyncChannelTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.SyncChannelTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	result, err := h.syncer.Sync(ctx, p.ChannelID, p.Force)
	if err != nil {
		return fmt.Errorf("failed to sync channel %d: %w", p.ChannelID, err)
	}

	log.Printf("Synced channel %d: %s", p.ChannelID, result)
	return nil
}

// HandleSyncAllChannelsTask is the update sweep: it fans out one sync task
// per known channel. A failure on one channel never aborts the pass, and
// the worker's concurrency setting bounds how many syncs run in parallel.
func (h *TaskHandler) HandleSyncAllChannelsTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Starting update sweep...")

	channels, err := db.GetAllChannels()
	if err != nil {
		return fmt.Errorf("failed to get channels: %w", err)
	}

	for _, channel := range channels {
		task, err := tasks.NewSyncChannelTask(channel.ID, false)
		if err != nil {
			log.Printf("failed to create sync task for channel %d: %v", channel.ID, err)
			continue
		}

		if _, err := h.asynqClient.Enqueue(task); err != nil {
			log.Printf("failed to enqueue sync task for channel %d: %v", channel.ID, err)
			continue
		}
	}

	log.Printf("Update sweep enqueued %d channels", len(channels))
	return nil
}

// HandlePruneChannelsTask is the prune sweep: channels nobody subscribes to
// are deleted, and the schema cascades the delete to their videos and
// filters. Each channel is handled independently.
func (h *TaskHandler) HandlePruneChannelsTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Starting prune sweep...")

	channels, err := db.GetAllChannels()
	if err != nil {
		return fmt.Errorf("failed to get channels: %w", err)
	}

	pruned := 0
	for _, channel := range channels {
		deleted, err := db.DeleteChannelIfUnsubscribed(channel.ID)
		if err != nil {
			log.Printf("failed to prune channel %s: %v", channel.YoutubeID, err)
			continue
		}
		if deleted {
			log.Printf("Pruned channel %s (%s): no subscribers", channel.Title, channel.YoutubeID)
			pruned++
		}
	}

	log.Printf("Prune sweep finished, removed %d channels", pruned)
	return nil
}

// HandleBackfillShortsTask classifies videos whose short-form flag is still
// unknown, a batch at a time. Classification is best effort; whatever is
// left stays unclassified until the next run.
func (h *TaskHandler) HandleBackfillShortsTask(ctx context.Context, t *asynq.Task) error {
	videos, err := db.GetUnclassifiedVideos(200)
	if err != nil {
		return fmt.Errorf("failed to get unclassified videos: %w", err)
	}

	for i := range videos {
		h.syncer.ClassifyShort(ctx, videos[i].ChannelID, videos[i].YoutubeID)
	}

	log.Printf("Shorts backfill processed %d videos", len(videos))
	return nil
}
