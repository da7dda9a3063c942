// File: services/notification/service.go
package notification

import (
	"context"
	"fmt"

	"museumgate/config"
	"museumgate/models"
	"museumgate/services/tasks"
	"museumgate/utils"

	"github.com/hibiken/asynq"
)

// NotificationService queues visitor emails. Everything here is
// fire-and-forget: the booking flow never waits on delivery, and failures are
// logged, not surfaced.
type NotificationService interface {
	SendBookingConfirmation(ctx context.Context, b models.Booking)
	SendSupplementaryLink(ctx context.Context, t models.SupplementaryToken, b models.Booking)
	SendBookingCancelled(ctx context.Context, b models.Booking)
	SendCheckInReceipt(ctx context.Context, b models.Booking, v models.Visitor)
}

// DefaultNotificationService enqueues tasks on the asynq queue; the cron
// worker performs the actual delivery with retry.
type DefaultNotificationService struct {
	Client *asynq.Client
}

// NewAsynqClient builds the shared queue client from app config.
func NewAsynqClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
}

func (s *DefaultNotificationService) enqueue(payload models.EmailPayload) {
	logger := utils.GetLogger().Sugar()
	if s.Client == nil || payload.To == "" {
		return
	}
	task, opts, err := tasks.NewEmailTask(payload)
	if err != nil {
		logger.Warnf("notification: failed to build email task: %v", err)
		return
	}
	if _, err := s.Client.Enqueue(task, opts...); err != nil {
		logger.Warnf("notification: failed to enqueue email to %s: %v", payload.To, err)
	}
}

func (s *DefaultNotificationService) SendBookingConfirmation(ctx context.Context, b models.Booking) {
	primary := b.Primary()
	if primary == nil {
		return
	}
	s.enqueue(models.EmailPayload{
		To:       primary.Email,
		Template: models.TemplateBookingConfirmation,
		Subject:  "Your museum visit is booked",
		Data: map[string]string{
			"bookingId": b.ID,
			"date":      b.Date,
			"slot":      b.SlotLabel,
			"visitors":  fmt.Sprintf("%d", b.TotalVisitors()),
		},
	})
}

func (s *DefaultNotificationService) SendSupplementaryLink(ctx context.Context, t models.SupplementaryToken, b models.Booking) {
	s.enqueue(models.EmailPayload{
		To:       t.Email,
		Template: models.TemplateSupplementaryLink,
		Subject:  "Complete your visitor details",
		Data: map[string]string{
			"tokenId":   t.TokenID,
			"link":      fmt.Sprintf("%s/additional-visitors/%s", config.AppConfig.PublicBaseURL, t.TokenID),
			"date":      b.Date,
			"slot":      b.SlotLabel,
			"expiresAt": t.ExpiresAt.Format("2006-01-02 15:04"),
		},
	})
}

func (s *DefaultNotificationService) SendCheckInReceipt(ctx context.Context, b models.Booking, v models.Visitor) {
	email := v.Email
	if email == "" {
		if primary := b.Primary(); primary != nil {
			email = primary.Email
		}
	}
	s.enqueue(models.EmailPayload{
		To:       email,
		Template: models.TemplateCheckInReceipt,
		Subject:  "Welcome to the museum",
		Data: map[string]string{
			"bookingId": b.ID,
			"visitor":   v.FirstName + " " + v.LastName,
			"date":      b.Date,
			"slot":      b.SlotLabel,
		},
	})
}

func (s *DefaultNotificationService) SendBookingCancelled(ctx context.Context, b models.Booking) {
	primary := b.Primary()
	if primary == nil {
		return
	}
	s.enqueue(models.EmailPayload{
		To:       primary.Email,
		Template: models.TemplateBookingCancelled,
		Subject:  "Your museum booking was cancelled",
		Data: map[string]string{
			"bookingId": b.ID,
			"date":      b.Date,
			"slot":      b.SlotLabel,
		},
	})
}
