package main

import (
	"log"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"yrss/internal/config"
	"yrss/internal/db"
	"yrss/internal/syncer"
	"yrss/internal/worker"
	"yrss/internal/youtube"
	"yrss/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	cfg := config.Load()
	db.InitDB()

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer client.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			// Bounds how many channel syncs of an update sweep run in
			// parallel.
			Concurrency: 4,
			Queues: map[string]int{
				"high":    2,
				"default": 1,
			},
		},
	)

	yt := youtube.NewClient(cfg.APIKey)
	sy := syncer.New(yt, cfg.RefreshInterval, cfg.VideosPerFetch)
	taskHandler := worker.NewTaskHandler(sy, client)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSyncChannel, taskHandler.HandleSyncChannelTask)
	mux.HandleFunc(tasks.TypeSyncAllChannels, taskHandler.HandleSyncAllChannelsTask)
	mux.HandleFunc(tasks.TypePruneChannels, taskHandler.HandlePruneChannelsTask)
	mux.HandleFunc(tasks.TypeBackfillShorts, taskHandler.HandleBackfillShortsTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
