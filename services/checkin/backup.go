// File: services/checkin/backup.go
package checkin

import (
	"context"
	"regexp"
	"strings"

	bookingRepo "museumgate/database/repository/booking"
	tokenRepo "museumgate/database/repository/token"
	"museumgate/models"
)

var eventCodePattern = regexp.MustCompile(`^(EVT-\S+|[0-9]+)$`)

// ResolveManual is the fallback when scanning fails and staff type the code
// printed under the QR. It routes into the same handlers as Dispatch and
// returns the identical result shape, so the scanner UI has one rendering
// path for both.
func (s *DefaultCheckInService) ResolveManual(ctx context.Context, code string) (models.CheckInResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return invalidFormat("empty code"), nil
	}

	// Event participant ids are numeric or EVT-prefixed.
	if eventCodePattern.MatchString(code) {
		return s.checkInEvent(ctx, code, true)
	}

	// Supplementary token ids double as backup codes.
	t, err := s.Tokens.GetByID(ctx, code)
	if err == nil {
		return s.checkInByToken(ctx, t)
	}
	if err != tokenRepo.ErrNotFound {
		return models.CheckInResult{}, err
	}

	// Last resort: a bare visitor id from the booking store.
	b, err := s.Bookings.GetByVisitorID(ctx, code)
	if err == bookingRepo.ErrNotFound {
		return models.CheckInResult{
			Success: false,
			Code:    models.CodeNotFound,
			Message: "No booking or registration matches this code",
		}, nil
	}
	if err != nil {
		return models.CheckInResult{}, err
	}

	category := categoryWalkIn
	if v := b.VisitorByID(code); v != nil && v.IsPrimary {
		category = categoryPrimary
	}
	return s.checkInVisitor(ctx, capability{category: category, visitorID: code})
}
