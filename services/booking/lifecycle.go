// File: services/booking/lifecycle.go
package booking

import (
	"context"

	bookingRepo "museumgate/database/repository/booking"
	"museumgate/models"
	"museumgate/utils"
)

func (s *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err == bookingRepo.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *DefaultBookingService) ListBookings(ctx context.Context, date string) ([]models.Booking, error) {
	return s.Bookings.ListByDate(ctx, date)
}

// ApproveBooking moves pending to approved, and nothing else: a booking that
// is already approved, cancelled or checked in is rejected.
func (s *DefaultBookingService) ApproveBooking(ctx context.Context, id string) error {
	err := s.Bookings.UpdateStatus(ctx, id, models.BookingPending, models.BookingApproved)
	switch err {
	case nil:
		utils.GetLogger().Sugar().Infow("booking approved", "bookingId", id)
		return nil
	case bookingRepo.ErrNotFound:
		return ErrNotFound
	case bookingRepo.ErrStatusConflict:
		return ErrInvalidTransition
	default:
		return err
	}
}

// CancelBooking cancels a pending or approved booking, returns the party's
// units to the slot ledger and invalidates any outstanding supplementary
// tokens so their detail links report the cancellation.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, id string) error {
	logger := utils.GetLogger().Sugar()

	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	err = s.Bookings.UpdateStatus(ctx, id, models.BookingApproved, models.BookingCancelled)
	if err == bookingRepo.ErrStatusConflict {
		err = s.Bookings.UpdateStatus(ctx, id, models.BookingPending, models.BookingCancelled)
	}
	switch err {
	case nil:
	case bookingRepo.ErrNotFound:
		return ErrNotFound
	case bookingRepo.ErrStatusConflict:
		return ErrInvalidTransition
	default:
		return err
	}

	if err := s.Slots.Release(ctx, b.Date, b.SlotLabel, b.TotalVisitors()); err != nil {
		logger.Errorw("failed to release capacity on cancel",
			"bookingId", id, "date", b.Date, "slot", b.SlotLabel, "error", err)
	}
	s.invalidateSlots(ctx, b.Date)

	if s.TokenSvc != nil {
		if err := s.TokenSvc.CancelForBooking(ctx, id); err != nil {
			logger.Errorw("failed to cancel tokens", "bookingId", id, "error", err)
		}
	}

	if s.Notifier != nil {
		b.Status = models.BookingCancelled
		s.Notifier.SendBookingCancelled(ctx, *b)
	}

	logger.Infow("booking cancelled", "bookingId", id, "released", b.TotalVisitors())
	return nil
}

// PurgeBooking hard-deletes a booking record. This is the one exception to
// never-delete, reserved for explicit staff cleanup. Capacity is released
// first unless cancellation already returned it.
func (s *DefaultBookingService) PurgeBooking(ctx context.Context, id string) error {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if b.Status != models.BookingCancelled {
		if err := s.Slots.Release(ctx, b.Date, b.SlotLabel, b.TotalVisitors()); err != nil {
			utils.GetLogger().Sugar().Errorw("failed to release capacity on purge",
				"bookingId", id, "error", err)
		}
		s.invalidateSlots(ctx, b.Date)
	}

	if s.TokenSvc != nil {
		if err := s.TokenSvc.CancelForBooking(ctx, id); err != nil {
			utils.GetLogger().Sugar().Errorw("failed to cancel tokens on purge",
				"bookingId", id, "error", err)
		}
	}

	if err := s.Bookings.Delete(ctx, id); err != nil {
		if err == bookingRepo.ErrNotFound {
			return ErrNotFound
		}
		return err
	}

	utils.GetLogger().Sugar().Infow("booking purged", "bookingId", id)
	return nil
}
