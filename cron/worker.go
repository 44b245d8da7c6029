package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"furever/config"
	"furever/models"
	"furever/services/schedule"
	"furever/services/tasks"
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}
}

// NewTaskClient returns an asynq client for enqueuing refresh tasks.
// The caller owns Close.
func NewTaskClient() *asynq.Client {
	return asynq.NewClient(redisOpts())
}

// InitRefreshWorker runs the availability refresh worker in background.
// Refresh tasks are enqueued by external triggers (a booking-service
// webhook, an admin action) and fan out to the right provider engine.
func InitRefreshWorker(registry *schedule.Registry) {

	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAvailabilityRefresh, handleRefreshTask(registry))

	go func() {
		log.Println("[RefreshWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[RefreshWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[RefreshWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleRefreshTask(registry *schedule.Registry) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.RefreshPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[RefreshHandler] invalid payload: %v", err)
			return err
		}
		if p.ProviderID == "" {
			log.Printf("[RefreshHandler] missing provider id, dropping task")
			return nil
		}

		engine := registry.Engine(p.ProviderID)
		var err error
		if p.Year > 0 && p.Month >= 1 && p.Month <= 12 {
			err = engine.FetchMonth(ctx, p.Year, p.Month, false)
		} else if p.Year > 0 {
			err = engine.FetchYear(ctx, p.Year, false)
		} else {
			err = engine.Refresh(ctx)
		}

		if err != nil {
			// Aborted/timeout refreshes are retried on the next cycle.
			log.Printf("[RefreshHandler] refresh for %s failed: %v", p.ProviderID, err)
		}
		return err
	}
}
