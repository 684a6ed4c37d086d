package main

import (
	"context"
	"log"
	"time"

	"outfitbot/app"
	"outfitbot/config"
	"outfitbot/tasks"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
)

type scheduledTask struct {
	cron string
	task *asynq.Task
	desc string
}

func scheduledTasks(cfg *config.Config) ([]scheduledTask, error) {
	var entries []scheduledTask

	cron, err := config.PushTimeToCron(cfg.Schedule.PushTime)
	if err != nil {
		return nil, err
	}
	outfitTask, err := tasks.NewOutfitPushTask(tasks.OutfitPushPayload{Source: tasks.SourceSchedule})
	if err != nil {
		return nil, err
	}
	entries = append(entries, scheduledTask{cron: cron, task: outfitTask, desc: "Daily outfit push"})

	if cfg.Schedule.MorningTime != "" {
		cron, err := config.PushTimeToCron(cfg.Schedule.MorningTime)
		if err != nil {
			return nil, err
		}
		morningTask, err := tasks.NewMorningPushTask(tasks.MorningPushPayload{Source: tasks.SourceSchedule})
		if err != nil {
			return nil, err
		}
		entries = append(entries, scheduledTask{cron: cron, task: morningTask, desc: "Morning briefing"})
	}
	return entries, nil
}

func runScheduler(cfg *config.Config) {
	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: cfg.Queue.BrokerAddress}, &asynq.SchedulerOpts{
		Location: cfg.Location(),
		LogLevel: asynq.InfoLevel,
	})

	entries, err := scheduledTasks(cfg)
	if err != nil {
		log.Fatalf("Failed to build scheduled tasks: %v", err)
	}
	for _, t := range entries {
		entryID, err := scheduler.Register(t.cron, t.task, asynq.Queue(cfg.Queue.Name))
		if err != nil {
			log.Fatalf("Failed to register task '%s': %v", t.desc, err)
		}
		log.Printf("Registered task '%s' with ID: %s, cron: %s", t.desc, entryID, t.cron)
	}

	log.Println("Starting scheduler...")
	if err := scheduler.Run(); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Queue.BrokerAddress == "" {
		log.Fatal("[Queue] broker address is not configured")
	}
	if err := app.InitSentry(cfg, "outfitbot-worker@1.0.0"); err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Flush(2 * time.Second)

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Queue.BrokerAddress},
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues:      map[string]int{cfg.Queue.Name: 1},
			LogLevel:    asynq.InfoLevel,
		},
	)
	mux := tasks.NewServeMux(a.Pusher)

	go runScheduler(cfg)
	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}
