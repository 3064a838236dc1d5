package main

import (
	"log"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"yrss/internal/config"
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

	// In debug mode nothing mutates the store in the background; sync
	// paths are invoked by hand.
	if cfg.Debug {
		log.Println("Debug mode: periodic sweeps disabled")
		return
	}

	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		&asynq.SchedulerOpts{},
	)

	updateTask, err := tasks.NewSyncAllChannelsTask()
	if err != nil {
		log.Fatalf("could not create update sweep task: %v", err)
	}
	if _, err := scheduler.Register("@every 10m", updateTask); err != nil {
		log.Fatalf("could not register update sweep: %v", err)
	}

	pruneTask, err := tasks.NewPruneChannelsTask()
	if err != nil {
		log.Fatalf("could not create prune sweep task: %v", err)
	}
	if _, err := scheduler.Register("@every 24h", pruneTask); err != nil {
		log.Fatalf("could not register prune sweep: %v", err)
	}

	backfillTask, err := tasks.NewBackfillShortsTask()
	if err != nil {
		log.Fatalf("could not create shorts backfill task: %v", err)
	}
	if _, err := scheduler.Register("@every 24h", backfillTask); err != nil {
		log.Fatalf("could not register shorts backfill: %v", err)
	}

	log.Printf("Scheduler starting (commit: %s)", CommitSHA)
	if err := scheduler.Run(); err != nil {
		log.Fatalf("could not run scheduler: %v", err)
	}
}
