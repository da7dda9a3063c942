// File: services/token/service.go
package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"museumgate/config"
	bookingRepo "museumgate/database/repository/booking"
	tokenRepo "museumgate/database/repository/token"
	"museumgate/models"
	"museumgate/utils"
)

var (
	// ErrInvalid means the token id resolves to nothing.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired means the details-form window has closed. The visit itself
	// is unaffected; the QR stays valid for physical check-in.
	ErrExpired = errors.New("token expired")
	// ErrAlreadyCompleted means the one-shot completion was already consumed.
	ErrAlreadyCompleted = errors.New("token already completed")
	// ErrBookingCancelled means the parent booking was cancelled after issue.
	ErrBookingCancelled = errors.New("booking cancelled")
)

// TokenService issues and resolves time-limited supplementary tokens for
// visitors who complete their own details after the primary visitor books.
type TokenService interface {
	Issue(ctx context.Context, kind models.TokenKind, b models.Booking, visitorID, email string) (*models.SupplementaryToken, error)
	Resolve(ctx context.Context, tokenID string) (*models.TokenInfo, error)
	Complete(ctx context.Context, tokenID string, details models.VisitorDetails) error
	CancelForBooking(ctx context.Context, bookingID string) error
}

// DefaultTokenService implements TokenService over the token and booking
// repositories.
type DefaultTokenService struct {
	Tokens   tokenRepo.TokenRepository
	Bookings bookingRepo.BookingRepository

	// Now is swappable in tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultTokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue mints a token for a co-visitor of the given booking. The category is
// fixed here, at issuance, as an explicit kind tag; the prefix on the id is
// cosmetic. Expiry is anchored to the visit date so reminders stay meaningful.
func (s *DefaultTokenService) Issue(ctx context.Context, kind models.TokenKind, b models.Booking, visitorID, email string) (*models.SupplementaryToken, error) {
	visitDate, err := time.Parse("2006-01-02", b.Date)
	if err != nil {
		return nil, fmt.Errorf("booking %s has invalid date %q: %w", b.ID, b.Date, err)
	}

	ttlDays := config.AppConfig.TokenTTLDays
	if ttlDays <= 0 {
		ttlDays = 3
	}

	t := models.SupplementaryToken{
		TokenID:   kind.Prefix() + strings.ToUpper(uuid.New().String()[:8]),
		Kind:      kind,
		BookingID: b.ID,
		VisitorID: visitorID,
		Email:     email,
		IssuedAt:  s.now(),
		ExpiresAt: visitDate.AddDate(0, 0, ttlDays),
	}

	if err := s.Tokens.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}

	utils.GetLogger().Sugar().Infow("token issued",
		"tokenId", t.TokenID, "kind", t.Kind, "bookingId", b.ID)
	return &t, nil
}

// Resolve returns everything the details form needs. An expired or completed
// token is not an error here: the response still carries the visit date and
// slot, with FormEditable false, so the visitor knows their QR remains valid
// at the door.
func (s *DefaultTokenService) Resolve(ctx context.Context, tokenID string) (*models.TokenInfo, error) {
	t, err := s.Tokens.GetByID(ctx, tokenID)
	if err == tokenRepo.ErrNotFound {
		return nil, ErrInvalid
	}
	if err != nil {
		return nil, err
	}
	if t.Cancelled {
		return nil, ErrBookingCancelled
	}

	b, err := s.Bookings.GetByID(ctx, t.BookingID)
	if err == bookingRepo.ErrNotFound {
		return nil, ErrInvalid
	}
	if err != nil {
		return nil, err
	}
	if b.Status == models.BookingCancelled {
		return nil, ErrBookingCancelled
	}

	info := &models.TokenInfo{
		TokenID:      t.TokenID,
		Kind:         t.Kind,
		BookingID:    b.ID,
		VisitDate:    b.Date,
		SlotLabel:    b.SlotLabel,
		Email:        t.Email,
		ExpiresAt:    t.ExpiresAt,
		Completed:    t.Completed,
		FormEditable: !t.Completed && !t.Expired(s.now()),
	}
	if primary := b.Primary(); primary != nil {
		info.PrimaryName = strings.TrimSpace(primary.FirstName + " " + primary.LastName)
		info.Institution = primary.Institution
		info.Purpose = primary.Purpose
	}
	info.QRPayload = checkInQRPayload(t)
	return info, nil
}

// checkInQRPayload builds the signed scan payload for a token holder. The
// payload routes by token id, so the visitor's code survives detail edits.
func checkInQRPayload(t *models.SupplementaryToken) string {
	payloadType := models.PayloadWalkinVisitor
	if t.Kind == models.TokenAdditional {
		payloadType = models.PayloadAdditionalVisitor
	}
	raw, err := json.Marshal(models.CheckInPayload{
		Type:    payloadType,
		TokenID: t.TokenID,
	})
	if err != nil {
		return ""
	}
	return utils.SignQRPayload(string(raw))
}

// Complete consumes the token exactly once and fills in the visitor's own
// fields. Institution and purpose are always inherited from the primary
// visitor; client-supplied values for them never reach storage.
func (s *DefaultTokenService) Complete(ctx context.Context, tokenID string, details models.VisitorDetails) error {
	t, err := s.Tokens.GetByID(ctx, tokenID)
	if err == tokenRepo.ErrNotFound {
		return ErrInvalid
	}
	if err != nil {
		return err
	}
	if t.Cancelled {
		return ErrBookingCancelled
	}
	if t.Completed {
		return ErrAlreadyCompleted
	}
	if t.Expired(s.now()) {
		return ErrExpired
	}

	b, err := s.Bookings.GetByID(ctx, t.BookingID)
	if err == bookingRepo.ErrNotFound {
		return ErrInvalid
	}
	if err != nil {
		return err
	}
	if b.Status == models.BookingCancelled {
		return ErrBookingCancelled
	}

	// Claim the one-shot first; the conditional update is what makes a
	// concurrent resubmission lose cleanly.
	if err := s.Tokens.MarkCompleted(ctx, tokenID); err != nil {
		if err == tokenRepo.ErrAlreadyCompleted {
			return ErrAlreadyCompleted
		}
		return err
	}

	var institution, purpose string
	if primary := b.Primary(); primary != nil {
		institution = primary.Institution
		purpose = primary.Purpose
	}
	if err := s.Bookings.CompleteVisitorDetails(ctx, t.BookingID, t.VisitorID, details, institution, purpose); err != nil {
		return fmt.Errorf("failed to store visitor details: %w", err)
	}

	utils.GetLogger().Sugar().Infow("token completed",
		"tokenId", tokenID, "bookingId", t.BookingID, "visitorId", t.VisitorID)
	return nil
}

// CancelForBooking invalidates every outstanding token of a booking. Called
// on booking cancellation so stale detail links fail with a clear reason.
func (s *DefaultTokenService) CancelForBooking(ctx context.Context, bookingID string) error {
	return s.Tokens.CancelByBooking(ctx, bookingID)
}
