// File: services/checkin/dispatcher.go
package checkin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	bookingRepo "museumgate/database/repository/booking"
	tokenRepo "museumgate/database/repository/token"
	"museumgate/models"
	"museumgate/utils"
)

var knownPayloadTypes = []string{
	models.PayloadEventParticipant,
	models.PayloadAdditionalVisitor,
	models.PayloadWalkinVisitor,
	models.PayloadPrimaryVisitor,
}

// Dispatch classifies a scanned code and routes it to the matching handler.
// Classification is ordered and first-match-wins:
//  1. a URL with a check-in path segment is the legacy primary-visitor path;
//  2. otherwise the payload must parse as JSON — no guessing on failure;
//  3. the type discriminator selects the category, with walk-ins resolved
//     through their token's kind tag.
func (s *DefaultCheckInService) Dispatch(ctx context.Context, rawPayload string) (models.CheckInResult, error) {
	payload := strings.TrimSpace(rawPayload)
	if payload == "" {
		return invalidFormat("empty payload"), nil
	}

	// Signed codes carry a trailing HMAC; strip it when it verifies. Codes
	// printed before signing was introduced pass through untouched.
	if stripped, err := utils.VerifyQRPayload(payload); err == nil {
		payload = stripped
	}

	if isCheckInURL(payload) {
		return s.dispatchLegacyURL(ctx, payload)
	}

	var p models.CheckInPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return invalidFormat("payload is neither a check-in URL nor valid JSON"), nil
	}

	switch p.Type {
	case models.PayloadEventParticipant:
		if p.RegistrationID == "" {
			return invalidFormat("event payload missing registrationId"), nil
		}
		return s.checkInEvent(ctx, p.RegistrationID, false)

	case models.PayloadAdditionalVisitor:
		return s.dispatchToken(ctx, p.TokenID)

	case models.PayloadWalkinVisitor:
		return s.dispatchWalkIn(ctx, p)

	case models.PayloadPrimaryVisitor:
		return s.dispatchPrimary(ctx, p)

	default:
		return models.CheckInResult{
			Success: false,
			Code:    models.CodeUnknownType,
			Message: fmt.Sprintf("unknown payload type %q, expected one of: %s",
				p.Type, strings.Join(knownPayloadTypes, ", ")),
		}, nil
	}
}

// dispatchLegacyURL follows the oldest code format: a full URL that performs
// the check-in itself. The JSON reply already has the shared result shape.
func (s *DefaultCheckInService) dispatchLegacyURL(ctx context.Context, rawURL string) (models.CheckInResult, error) {
	if s.Events == nil {
		return collaboratorUnavailable(), nil
	}
	res, err := s.Events.FetchLegacyCheckIn(ctx, rawURL)
	if err != nil {
		utils.GetLogger().Sugar().Warnw("legacy URL check-in failed", "url", rawURL, "error", err)
		return collaboratorUnavailable(), nil
	}
	if res.Code == "" {
		// Very old backends only sent success; normalise the code.
		if res.Success {
			res.Code = models.CodeCheckedIn
		} else {
			res.Code = models.CodeNotFound
		}
	}
	return *res, nil
}

func (s *DefaultCheckInService) dispatchToken(ctx context.Context, tokenID string) (models.CheckInResult, error) {
	if tokenID == "" {
		return invalidFormat("payload missing tokenId"), nil
	}
	t, err := s.Tokens.GetByID(ctx, tokenID)
	if err == tokenRepo.ErrNotFound {
		return models.CheckInResult{
			Success: false,
			Code:    models.CodeNotFound,
			Message: "No booking matches this code",
		}, nil
	}
	if err != nil {
		return models.CheckInResult{}, err
	}
	return s.checkInByToken(ctx, t)
}

// dispatchWalkIn resolves the walk-in sub-categories. A token pins the
// category via its kind tag (group member vs leader); a bare visitor id is a
// plain individual walk-in.
func (s *DefaultCheckInService) dispatchWalkIn(ctx context.Context, p models.CheckInPayload) (models.CheckInResult, error) {
	if p.TokenID != "" {
		return s.dispatchToken(ctx, p.TokenID)
	}
	if p.VisitorID == "" {
		return invalidFormat("walk-in payload missing visitorId or tokenId"), nil
	}

	// Older walk-in codes carry only the visitor id; recover the category
	// from the token issued for that visitor when one exists.
	if t, err := s.Tokens.GetByVisitorID(ctx, p.VisitorID); err == nil {
		return s.checkInByToken(ctx, t)
	} else if err != tokenRepo.ErrNotFound {
		return models.CheckInResult{}, err
	}

	category := categoryWalkIn
	if p.IsGroupLeader {
		category = categoryGroupLeader
	}
	return s.checkInVisitor(ctx, capability{category: category, visitorID: p.VisitorID})
}

func (s *DefaultCheckInService) dispatchPrimary(ctx context.Context, p models.CheckInPayload) (models.CheckInResult, error) {
	visitorID := p.VisitorID
	if visitorID == "" && p.BookingID != "" {
		b, err := s.Bookings.GetByID(ctx, p.BookingID)
		if err == bookingRepo.ErrNotFound {
			return models.CheckInResult{
				Success: false,
				Code:    models.CodeNotFound,
				Message: "No booking matches this code",
			}, nil
		}
		if err != nil {
			return models.CheckInResult{}, err
		}
		if primary := b.Primary(); primary != nil {
			visitorID = primary.ID
		}
	}
	if visitorID == "" {
		return invalidFormat("primary payload missing visitorId and bookingId"), nil
	}
	return s.checkInVisitor(ctx, capability{category: categoryPrimary, visitorID: visitorID})
}

// isCheckInURL reports whether the payload is a URL whose path contains a
// check-in segment.
func isCheckInURL(payload string) bool {
	if !strings.HasPrefix(payload, "http://") && !strings.HasPrefix(payload, "https://") {
		return false
	}
	u, err := url.Parse(payload)
	if err != nil {
		return false
	}
	for _, seg := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if seg == "checkin" || seg == "check-in" {
			return true
		}
	}
	return false
}

func invalidFormat(detail string) models.CheckInResult {
	return models.CheckInResult{
		Success: false,
		Code:    models.CodeInvalidFormat,
		Message: "Unrecognised code: " + detail,
	}
}
