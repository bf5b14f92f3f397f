package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"lastmile/config"
	paymentRepo "lastmile/database/repository/payment"
	paymentSvc "lastmile/services/payment"

	"github.com/hibiken/asynq"
)

const (
	TypeRetrySweep    = "payments:retry_sweep"
	TypePaymentRetry  = "payments:retry"
	retrySweepEvery   = 5 * time.Minute
	retrySweepBatch   = 50
	workerConcurrency = 10
)

type retryPayload struct {
	PaymentID string `json:"paymentId"`
}

// InitRetryWorker runs the background settlement retry loop: a periodic
// sweep finds failed payments whose cooldown has expired and enqueues one
// retry task per payment.
func InitRetryWorker(payments paymentSvc.PaymentService, repo paymentRepo.PaymentRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisRetryQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: workerConcurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	client := asynq.NewClient(redisOpts)
	cooldown := time.Duration(config.AppConfig.RetryCooldownMinutes) * time.Minute

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeRetrySweep, handleRetrySweep(client, repo, cooldown))
	mux.HandleFunc(TypePaymentRetry, handlePaymentRetry(payments))

	go func() {
		ticker := time.NewTicker(retrySweepEvery)
		defer ticker.Stop()
		for range ticker.C {
			task := asynq.NewTask(TypeRetrySweep, nil)
			if _, err := client.Enqueue(task, asynq.Unique(retrySweepEvery)); err != nil {
				log.Printf("[RetryWorker] failed to enqueue sweep: %v", err)
			}
		}
	}()

	go func() {
		log.Println("[RetryWorker] starting async worker...")
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[RetryWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)
				if attempts == maxAttempts {
					log.Fatal("[RetryWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleRetrySweep(client *asynq.Client, repo paymentRepo.PaymentRepository, cooldown time.Duration) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		eligible, err := repo.ListRetryEligible(cooldown, retrySweepBatch)
		if err != nil {
			log.Printf("[RetrySweep] failed to list eligible payments: %v", err)
			return err
		}

		for _, p := range eligible {
			payload, err := json.Marshal(retryPayload{PaymentID: p.ID})
			if err != nil {
				continue
			}
			retryTask := asynq.NewTask(TypePaymentRetry, payload)
			if _, err := client.Enqueue(retryTask, asynq.Unique(cooldown)); err != nil {
				log.Printf("[RetrySweep] failed to enqueue retry for payment %s: %v", p.ID, err)
			}
		}
		return nil
	}
}

func handlePaymentRetry(payments paymentSvc.PaymentService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p retryPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[PaymentRetry] invalid payload: %v", err)
			return err
		}

		if _, err := payments.Retry(p.PaymentID); err != nil {
			// Business-rule rejections are final; do not keep the task alive.
			if _, ok := paymentSvc.AsPaymentError(err); ok {
				log.Printf("[PaymentRetry] payment %s not retried: %v", p.PaymentID, err)
				return nil
			}
			return err
		}
		return nil
	}
}
