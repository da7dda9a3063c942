// File: services/booking/interface.go
package booking

import (
	"context"

	bookingRepo "museumgate/database/repository/booking"
	slotRepo "museumgate/database/repository/slot"
	"museumgate/models"
	"museumgate/services/notification"
	"museumgate/services/token"

	"github.com/go-redis/redis/v8"
)

// BookingService is the lifecycle surface for visit bookings: slot listing,
// creation (online and walk-in), staff approval/cancellation/purge.
type BookingService interface {
	ListSlots(ctx context.Context, date string) ([]models.TimeSlot, error)
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error)
	RegisterWalkIn(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, date string) ([]models.Booking, error)
	ApproveBooking(ctx context.Context, id string) error
	CancelBooking(ctx context.Context, id string) error
	PurgeBooking(ctx context.Context, id string) error
	BookingQR(ctx context.Context, id string) ([]byte, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Slots       slotRepo.SlotRepository
	Bookings    bookingRepo.BookingRepository
	TokenSvc    token.TokenService
	Notifier    notification.NotificationService
	CacheClient *redis.Client
}
