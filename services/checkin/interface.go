// File: services/checkin/interface.go
package checkin

import (
	"context"
	"time"

	bookingRepo "museumgate/database/repository/booking"
	tokenRepo "museumgate/database/repository/token"
	"museumgate/models"
	"museumgate/services/notification"
)

// EventsGateway is the slice of the events collaborator the check-in engine
// needs. The collaborator owns participant state; check-in only asks it to
// apply the transition.
type EventsGateway interface {
	CheckInParticipant(ctx context.Context, registrationID string, manual bool) (*models.EventCheckInResponse, error)
	FetchLegacyCheckIn(ctx context.Context, rawURL string) (*models.CheckInResult, error)
}

// CheckInService classifies scanned or typed codes and applies the one-time
// check-in transition for the matched visitor category. Expected outcomes
// (cancelled, not approved, already checked in, unparseable code) come back
// as results; the error return is reserved for infrastructure failures.
type CheckInService interface {
	Dispatch(ctx context.Context, rawPayload string) (models.CheckInResult, error)
	ResolveManual(ctx context.Context, code string) (models.CheckInResult, error)
}

// DefaultCheckInService implements CheckInService.
type DefaultCheckInService struct {
	Bookings bookingRepo.BookingRepository
	Tokens   tokenRepo.TokenRepository
	Events   EventsGateway
	Notifier notification.NotificationService

	// Now is swappable in tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultCheckInService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
