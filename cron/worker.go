package cron

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"museumgate/config"
	"museumgate/models"
	"museumgate/services/tasks"

	"github.com/hibiken/asynq"
)

// InitEmailWorker runs the async email worker in background. Delivery goes
// through the museum's notification collaborator; asynq supplies the retry.
func InitEmailWorker() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendEmail, handleEmailTask)

	go func() {
		log.Println("[EmailWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[EmailWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[EmailWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleEmailTask(ctx context.Context, task *asynq.Task) error {
	var p models.EmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		log.Printf("[EmailWorker] invalid payload: %v", err)
		return err
	}

	notifyURL := config.AppConfig.NotifyServiceURL
	if notifyURL == "" {
		// No collaborator configured (e.g. local dev); drop the email.
		log.Printf("[EmailWorker] no notify service configured, dropping %s email to %s", p.Template, p.To)
		return nil
	}

	body, err := json.Marshal(p)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, notifyURL+"/api/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("[EmailWorker] delivery to %s failed: %v", p.To, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("notify service returned status %d", resp.StatusCode)
	}
	return nil
}
