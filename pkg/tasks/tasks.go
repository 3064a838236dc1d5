package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeSyncChannel     = "channel:sync"
	TypeSyncAllChannels = "channels:sync_all"
	TypePruneChannels   = "channels:prune"
	TypeBackfillShorts  = "videos:backfill_shorts"
)

type SyncChannelTaskPayload struct {
	ChannelID int64
	Force     bool
}

func NewSyncChannelTask(channelID int64, force bool) (*asynq.Task, error) {
	payload, err := json.Marshal(SyncChannelTaskPayload{ChannelID: channelID, Force: force})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSyncChannel, payload), nil
}

func NewSyncAllChannelsTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeSyncAllChannels, nil), nil
}

func NewPruneChannelsTask() (*asynq.Task, error) {
	return asynq.NewTask(TypePruneChannels, nil), nil
}

func NewBackfillShortsTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeBackfillShorts, nil), nil
}
