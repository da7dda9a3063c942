// File: services/checkin/handler.go
package checkin

import (
	"context"
	"fmt"
	"strings"

	bookingRepo "museumgate/database/repository/booking"
	"museumgate/models"
	"museumgate/utils"
)

// Operator-facing visitor category labels.
const (
	categoryPrimary     = "Primary visitor"
	categoryAdditional  = "Additional visitor"
	categoryGroupMember = "Group member"
	categoryGroupLeader = "Group leader"
	categoryWalkIn      = "Walk-in visitor"
	categoryParticipant = "Event participant"
)

// capability is the per-category record the one generic handler runs. Every
// booking-backed category shares the same state machine; a category differs
// only in its label and in how its code resolves to a visitor. A bug fixed
// here is fixed for all of them at once.
type capability struct {
	category  string
	visitorID string
}

// checkInVisitor is the generic handler: it attempts the conditional one-shot
// claim and maps the outcome onto the shared result taxonomy. Re-scans land
// on the already-checked-in branch with the original timestamp untouched.
func (s *DefaultCheckInService) checkInVisitor(ctx context.Context, cap capability) (models.CheckInResult, error) {
	outcome, b, err := s.Bookings.ClaimVisitorCheckIn(ctx, cap.visitorID, s.now())
	if err != nil {
		return models.CheckInResult{}, err
	}

	switch outcome {
	case bookingRepo.ClaimWon:
		res := models.CheckInResult{
			Success: true,
			Code:    models.CodeCheckedIn,
			Message: fmt.Sprintf("%s checked in", cap.category),
			Visitor: visitorSummary(b, cap.visitorID, cap.category),
		}
		utils.GetLogger().Sugar().Infow("visitor checked in",
			"visitorId", cap.visitorID, "bookingId", b.ID, "category", cap.category)
		if s.Notifier != nil {
			if v := b.VisitorByID(cap.visitorID); v != nil {
				s.Notifier.SendCheckInReceipt(ctx, *b, *v)
			}
		}
		return res, nil

	case bookingRepo.ClaimAlreadyCheckedIn:
		return models.CheckInResult{
			Success: false,
			Code:    models.CodeAlreadyCheckedIn,
			Message: fmt.Sprintf("%s already checked in", cap.category),
			Visitor: visitorSummary(b, cap.visitorID, cap.category),
		}, nil

	case bookingRepo.ClaimCancelled:
		return models.CheckInResult{
			Success: false,
			Code:    models.CodeCancelled,
			Message: "This booking has been cancelled",
			Visitor: visitorSummary(b, cap.visitorID, cap.category),
		}, nil

	case bookingRepo.ClaimNotApproved:
		return models.CheckInResult{
			Success: false,
			Code:    models.CodeNotApproved,
			Message: "This booking has not been approved yet",
			Visitor: visitorSummary(b, cap.visitorID, cap.category),
		}, nil

	default:
		return models.CheckInResult{
			Success: false,
			Code:    models.CodeNotFound,
			Message: "No booking matches this code",
		}, nil
	}
}

// checkInByToken resolves a supplementary token and routes on its kind tag.
// The kind was fixed at issuance, so routing never depends on parsing the
// token id string.
func (s *DefaultCheckInService) checkInByToken(ctx context.Context, t *models.SupplementaryToken) (models.CheckInResult, error) {
	if t.Cancelled {
		return models.CheckInResult{
			Success: false,
			Code:    models.CodeCancelled,
			Message: "This booking has been cancelled",
		}, nil
	}

	// Token expiry blocks the details form only, never the door.
	var category string
	switch t.Kind {
	case models.TokenAdditional:
		category = categoryAdditional
	case models.TokenGroupMember:
		category = categoryGroupMember
	case models.TokenGroupLeader:
		category = categoryGroupLeader
	case models.TokenWalkIn:
		category = categoryWalkIn
	default:
		category = categoryWalkIn
	}

	return s.checkInVisitor(ctx, capability{category: category, visitorID: t.VisitorID})
}

// checkInEvent routes to the events collaborator and maps its reply into the
// shared result shape.
func (s *DefaultCheckInService) checkInEvent(ctx context.Context, registrationID string, manual bool) (models.CheckInResult, error) {
	if s.Events == nil {
		return collaboratorUnavailable(), nil
	}

	resp, err := s.Events.CheckInParticipant(ctx, registrationID, manual)
	if err != nil {
		utils.GetLogger().Sugar().Warnw("event check-in unavailable",
			"registrationId", registrationID, "error", err)
		return collaboratorUnavailable(), nil
	}
	if resp == nil {
		return models.CheckInResult{
			Success: false,
			Code:    models.CodeNotFound,
			Message: "No event registration matches this code",
		}, nil
	}

	reg := resp.Registration
	participant := &models.ParticipantSummary{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		Name:           strings.TrimSpace(reg.FirstName + " " + reg.LastName),
		CheckinTime:    reg.CheckinTime,
	}

	switch resp.Code {
	case models.CodeCheckedIn:
		return models.CheckInResult{
			Success:     true,
			Code:        models.CodeCheckedIn,
			Message:     fmt.Sprintf("%s checked in", categoryParticipant),
			Participant: participant,
		}, nil
	case models.CodeAlreadyCheckedIn:
		return models.CheckInResult{
			Success:     false,
			Code:        models.CodeAlreadyCheckedIn,
			Message:     fmt.Sprintf("%s already checked in", categoryParticipant),
			Participant: participant,
		}, nil
	case models.CodeCancelled:
		return models.CheckInResult{
			Success:     false,
			Code:        models.CodeCancelled,
			Message:     "This registration has been cancelled",
			Participant: participant,
		}, nil
	case models.CodeNotApproved:
		return models.CheckInResult{
			Success:     false,
			Code:        models.CodeNotApproved,
			Message:     "This registration has not been approved yet",
			Participant: participant,
		}, nil
	default:
		return models.CheckInResult{
			Success:     false,
			Code:        resp.Code,
			Message:     "Failed to process",
			Participant: participant,
		}, nil
	}
}

func visitorSummary(b *models.Booking, visitorID, category string) *models.VisitorSummary {
	if b == nil {
		return nil
	}
	v := b.VisitorByID(visitorID)
	if v == nil {
		return nil
	}
	return &models.VisitorSummary{
		VisitorID:   v.ID,
		BookingID:   b.ID,
		Name:        strings.TrimSpace(v.FirstName + " " + v.LastName),
		Category:    category,
		Date:        b.Date,
		SlotLabel:   b.SlotLabel,
		CheckinTime: v.CheckinTime,
	}
}

func collaboratorUnavailable() models.CheckInResult {
	return models.CheckInResult{
		Success: false,
		Code:    models.CodeCollaboratorUnavailable,
		Message: "Event service is unavailable, please retry",
	}
}
