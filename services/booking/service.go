// File: services/booking/service.go
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	slotRepo "museumgate/database/repository/slot"
	"museumgate/models"
	"museumgate/utils"
)

const slotCacheTTL = 10 * time.Second

func slotCacheKey(date string) string { return "slots:" + date }

// ListSlots returns the day's bookable slots. A short-lived Redis cache
// absorbs scanner-kiosk revalidation bursts; mutations delete the key.
func (s *DefaultBookingService) ListSlots(ctx context.Context, date string) ([]models.TimeSlot, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	if s.CacheClient != nil {
		if cached, err := s.CacheClient.Get(ctx, slotCacheKey(date)).Result(); err == nil {
			var slots []models.TimeSlot
			if err := json.Unmarshal([]byte(cached), &slots); err == nil {
				return slots, nil
			}
		}
	}

	slots, err := s.Slots.ListDay(ctx, date)
	if err != nil {
		return nil, err
	}

	if s.CacheClient != nil {
		if data, err := json.Marshal(slots); err == nil {
			s.CacheClient.Set(ctx, slotCacheKey(date), data, slotCacheTTL)
		}
	}
	return slots, nil
}

func (s *DefaultBookingService) invalidateSlots(ctx context.Context, date string) {
	if s.CacheClient != nil {
		s.CacheClient.Del(ctx, slotCacheKey(date))
	}
}

// CreateBooking reserves capacity for the whole party first and only then
// persists. A group of five consumes five units of one slot; if the insert
// fails the reservation is rolled back so no partial state survives.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	return s.create(ctx, req, false)
}

// RegisterWalkIn records a party that arrived without an online booking. The
// booking is approved immediately; the door issues the codes.
func (s *DefaultBookingService) RegisterWalkIn(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	return s.create(ctx, req, true)
}

func (s *DefaultBookingService) create(ctx context.Context, req models.CreateBookingRequest, walkIn bool) (*models.Booking, error) {
	logger := utils.GetLogger().Sugar()

	if req.Kind != models.BookingIndividual && req.Kind != models.BookingGroup {
		return nil, fmt.Errorf("unknown booking kind %q", req.Kind)
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}
	if req.Kind == models.BookingIndividual && len(req.GroupMembers) > 0 && walkIn {
		// Walk-in parties with companions are registered as groups.
		req.Kind = models.BookingGroup
	}

	totalVisitors := 1 + len(req.GroupMembers)

	if err := s.Slots.Reserve(ctx, req.Date, req.SlotLabel, totalVisitors); err != nil {
		switch err {
		case slotRepo.ErrCapacityExceeded:
			return nil, ErrSlotFull
		case slotRepo.ErrSlotNotBookable, slotRepo.ErrSlotNotFound:
			return nil, ErrSlotNotBookable
		default:
			return nil, err
		}
	}

	status := models.BookingPending
	if walkIn {
		status = models.BookingApproved
	}

	b := models.Booking{
		ID:        uuid.New().String(),
		Kind:      req.Kind,
		Date:      req.Date,
		SlotLabel: req.SlotLabel,
		Status:    status,
		WalkIn:    walkIn,
		Visitors:  buildVisitors(req),
		CreatedAt: time.Now(),
	}

	if err := s.Bookings.Insert(ctx, b); err != nil {
		// The reservation must not outlive a failed insert.
		if relErr := s.Slots.Release(ctx, req.Date, req.SlotLabel, totalVisitors); relErr != nil {
			logger.Errorw("failed to roll back reservation after insert failure",
				"date", req.Date, "slot", req.SlotLabel, "error", relErr)
		}
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}
	s.invalidateSlots(ctx, req.Date)

	s.issueTokens(ctx, &b)

	if s.Notifier != nil {
		s.Notifier.SendBookingConfirmation(ctx, b)
	}

	logger.Infow("booking created",
		"bookingId", b.ID, "kind", b.Kind, "date", b.Date, "slot", b.SlotLabel,
		"visitors", totalVisitors, "walkIn", walkIn)
	return &b, nil
}

func buildVisitors(req models.CreateBookingRequest) []models.Visitor {
	visitors := make([]models.Visitor, 0, 1+len(req.GroupMembers))

	primary := models.Visitor{
		ID:               uuid.New().String(),
		FirstName:        req.MainVisitor.FirstName,
		LastName:         req.MainVisitor.LastName,
		Gender:           req.MainVisitor.Gender,
		Nationality:      req.MainVisitor.Nationality,
		Address:          req.MainVisitor.Address,
		Email:            req.MainVisitor.Email,
		Institution:      req.MainVisitor.Institution,
		Purpose:          req.MainVisitor.Purpose,
		IsPrimary:        true,
		DetailsCompleted: true,
	}
	visitors = append(visitors, primary)

	for _, m := range req.GroupMembers {
		visitors = append(visitors, models.Visitor{
			ID:          uuid.New().String(),
			FirstName:   m.FirstName,
			LastName:    m.LastName,
			Gender:      m.Gender,
			Nationality: m.Nationality,
			Address:     m.Address,
			Email:       m.Email,
			// Institution and purpose are inherited from the primary.
			Institution:      primary.Institution,
			Purpose:          primary.Purpose,
			IsPrimary:        false,
			DetailsCompleted: m.FirstName != "" && m.LastName != "",
		})
	}
	return visitors
}

// issueTokens mints the supplementary tokens the party needs: detail-form
// links for co-visitors, and walk-in check-in codes. Failures are logged and
// skipped; a missing token never blocks a booking.
func (s *DefaultBookingService) issueTokens(ctx context.Context, b *models.Booking) {
	if s.TokenSvc == nil {
		return
	}
	logger := utils.GetLogger().Sugar()
	primary := b.Primary()

	for i := range b.Visitors {
		v := &b.Visitors[i]

		var kind models.TokenKind
		switch {
		case v.IsPrimary && b.WalkIn && b.Kind == models.BookingGroup:
			kind = models.TokenGroupLeader
		case v.IsPrimary && b.WalkIn:
			kind = models.TokenWalkIn
		case v.IsPrimary:
			continue
		case b.Kind == models.BookingGroup:
			kind = models.TokenGroupMember
		default:
			kind = models.TokenAdditional
		}

		// The primary visitor's email seeds tokens for co-visitors who have
		// not supplied their own yet.
		email := v.Email
		if email == "" && primary != nil {
			email = primary.Email
		}

		t, err := s.TokenSvc.Issue(ctx, kind, *b, v.ID, email)
		if err != nil {
			logger.Warnw("failed to issue supplementary token",
				"bookingId", b.ID, "visitorId", v.ID, "error", err)
			continue
		}
		if s.Notifier != nil && !v.IsPrimary {
			s.Notifier.SendSupplementaryLink(ctx, *t, *b)
		}
	}
}

// BookingQR renders the primary visitor's signed check-in code as a PNG.
func (s *DefaultBookingService) BookingQR(ctx context.Context, id string) ([]byte, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	primary := b.Primary()
	if primary == nil {
		return nil, fmt.Errorf("booking %s has no primary visitor", id)
	}

	payload := models.CheckInPayload{
		Type:      models.PayloadPrimaryVisitor,
		BookingID: b.ID,
		VisitorID: primary.ID,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return utils.EncodeQRPNG(utils.SignQRPayload(string(raw)), 256)
}
