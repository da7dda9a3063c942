package tasks

import (
	"encoding/json"

	"museumgate/models"

	"github.com/hibiken/asynq"
)

const TypeSendEmail = "email:send"

// NewEmailTask wraps an outbound email payload as an asynq task. Delivery
// happens in the worker; request handlers only enqueue.
func NewEmailTask(payload models.EmailPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendEmail, b)
	opts := []asynq.Option{asynq.MaxRetry(5)}

	return task, opts, nil
}
