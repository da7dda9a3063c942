// File: services/token/service_test.go
package token

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	bookingRepo "museumgate/database/repository/booking"
	tokenRepo "museumgate/database/repository/token"
	"museumgate/models"
)

type memTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.SupplementaryToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: make(map[string]*models.SupplementaryToken)}
}

func (r *memTokenRepo) Insert(_ context.Context, t models.SupplementaryToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.TokenID] = &t
	return nil
}

func (r *memTokenRepo) GetByID(_ context.Context, tokenID string) (*models.SupplementaryToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[tokenID]
	if !ok {
		return nil, tokenRepo.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTokenRepo) GetByVisitorID(_ context.Context, visitorID string) (*models.SupplementaryToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.VisitorID == visitorID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, tokenRepo.ErrNotFound
}

func (r *memTokenRepo) MarkCompleted(_ context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[tokenID]
	if !ok {
		return tokenRepo.ErrNotFound
	}
	if t.Completed {
		return tokenRepo.ErrAlreadyCompleted
	}
	t.Completed = true
	return nil
}

func (r *memTokenRepo) CancelByBooking(_ context.Context, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.BookingID == bookingID {
			t.Cancelled = true
		}
	}
	return nil
}

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newMemBookingRepo(bookings ...models.Booking) *memBookingRepo {
	r := &memBookingRepo{bookings: make(map[string]*models.Booking)}
	for i := range bookings {
		b := bookings[i]
		r.bookings[b.ID] = &b
	}
	return r
}

func (r *memBookingRepo) Insert(_ context.Context, b models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = &b
	return nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memBookingRepo) GetByVisitorID(_ context.Context, visitorID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.VisitorByID(visitorID) != nil {
			cp := *b
			return &cp, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (r *memBookingRepo) ListByDate(context.Context, string) ([]models.Booking, error) {
	return nil, nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if b.Status != from {
		return bookingRepo.ErrStatusConflict
	}
	b.Status = to
	return nil
}

func (r *memBookingRepo) ClaimVisitorCheckIn(context.Context, string, time.Time) (bookingRepo.ClaimOutcome, *models.Booking, error) {
	return bookingRepo.ClaimNotFound, nil, nil
}

func (r *memBookingRepo) CompleteVisitorDetails(_ context.Context, bookingID, visitorID string, details models.VisitorDetails, institution, purpose string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	v := b.VisitorByID(visitorID)
	if v == nil {
		return bookingRepo.ErrNotFound
	}
	v.FirstName = details.FirstName
	v.LastName = details.LastName
	v.Institution = institution
	v.Purpose = purpose
	v.DetailsCompleted = true
	return nil
}

func (r *memBookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bookings, id)
	return nil
}

func testBooking() models.Booking {
	return models.Booking{
		ID:        "b1",
		Kind:      models.BookingGroup,
		Date:      "2026-09-15",
		SlotLabel: "10:00 - 11:00",
		Status:    models.BookingApproved,
		Visitors: []models.Visitor{
			{
				ID:          "v1",
				FirstName:   "Maya",
				LastName:    "Lindqvist",
				Email:       "maya@example.org",
				Institution: "Northfield College",
				Purpose:     "Research visit",
				IsPrimary:   true,
			},
			{ID: "v2"},
		},
	}
}

func newTestService(bookings ...models.Booking) (*DefaultTokenService, *memTokenRepo, *memBookingRepo) {
	tokens := newMemTokenRepo()
	repo := newMemBookingRepo(bookings...)
	svc := &DefaultTokenService{
		Tokens:   tokens,
		Bookings: repo,
		Now:      func() time.Time { return time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC) },
	}
	return svc, tokens, repo
}

func TestIssueFixesKindAndExpiry(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	b := testBooking()

	tok, err := svc.Issue(ctx, models.TokenGroupMember, b, "v2", "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if tok.Kind != models.TokenGroupMember {
		t.Errorf("Kind = %q, want %q", tok.Kind, models.TokenGroupMember)
	}
	if !strings.HasPrefix(tok.TokenID, "GROUP-") {
		t.Errorf("TokenID = %q, want GROUP- prefix", tok.TokenID)
	}

	// Expiry anchors to the visit date, not the issue time.
	want := time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)
	if !tok.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", tok.ExpiresAt, want)
	}
}

func TestResolveExpiredTokenStillShowsVisit(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(testBooking())
	b := testBooking()

	tok, err := svc.Issue(ctx, models.TokenAdditional, b, "v2", "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Jump past the form window.
	svc.Now = func() time.Time { return time.Date(2026, 9, 25, 9, 0, 0, 0, time.UTC) }

	info, err := svc.Resolve(ctx, tok.TokenID)
	if err != nil {
		t.Fatalf("Resolve() error = %v, expiry must not be an error", err)
	}
	if info.FormEditable {
		t.Error("FormEditable = true for an expired token")
	}
	if info.VisitDate != "2026-09-15" || info.SlotLabel != "10:00 - 11:00" {
		t.Errorf("visit details lost: %q %q", info.VisitDate, info.SlotLabel)
	}
	if info.PrimaryName != "Maya Lindqvist" {
		t.Errorf("PrimaryName = %q", info.PrimaryName)
	}
	if info.QRPayload == "" {
		t.Error("QRPayload missing; the check-in code must outlive the form window")
	}
}

func TestCompleteIsOneShot(t *testing.T) {
	ctx := context.Background()
	svc, _, repo := newTestService(testBooking())
	b := testBooking()

	tok, err := svc.Issue(ctx, models.TokenAdditional, b, "v2", "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	details := models.VisitorDetails{FirstName: "Jon", LastName: "Lindqvist", Nationality: "Swedish"}
	if err := svc.Complete(ctx, tok.TokenID, details); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if err := svc.Complete(ctx, tok.TokenID, details); err != ErrAlreadyCompleted {
		t.Fatalf("second Complete() error = %v, want ErrAlreadyCompleted", err)
	}

	stored, err := repo.GetByID(ctx, "b1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	v := stored.VisitorByID("v2")
	if v == nil || !v.DetailsCompleted {
		t.Fatal("visitor details not stored")
	}
	// Institution and purpose come from the primary visitor, never the form.
	if v.Institution != "Northfield College" || v.Purpose != "Research visit" {
		t.Errorf("inherited fields = %q / %q", v.Institution, v.Purpose)
	}
}

func TestCompleteExpired(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(testBooking())
	b := testBooking()

	tok, err := svc.Issue(ctx, models.TokenAdditional, b, "v2", "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	svc.Now = func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) }

	err = svc.Complete(ctx, tok.TokenID, models.VisitorDetails{FirstName: "Jon", LastName: "L"})
	if err != ErrExpired {
		t.Fatalf("Complete() error = %v, want ErrExpired", err)
	}
}

func TestCancelledBookingBlocksToken(t *testing.T) {
	ctx := context.Background()
	svc, _, repo := newTestService(testBooking())
	b := testBooking()

	tok, err := svc.Issue(ctx, models.TokenAdditional, b, "v2", "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if err := repo.UpdateStatus(ctx, "b1", models.BookingApproved, models.BookingCancelled); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	if _, err := svc.Resolve(ctx, tok.TokenID); err != ErrBookingCancelled {
		t.Errorf("Resolve() error = %v, want ErrBookingCancelled", err)
	}
	if err := svc.Complete(ctx, tok.TokenID, models.VisitorDetails{FirstName: "A", LastName: "B"}); err != ErrBookingCancelled {
		t.Errorf("Complete() error = %v, want ErrBookingCancelled", err)
	}
}

func TestCancelForBookingMarksTokens(t *testing.T) {
	ctx := context.Background()
	svc, tokens, _ := newTestService(testBooking())
	b := testBooking()

	tok, err := svc.Issue(ctx, models.TokenAdditional, b, "v2", "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if err := svc.CancelForBooking(ctx, "b1"); err != nil {
		t.Fatalf("CancelForBooking() error = %v", err)
	}

	stored, err := tokens.GetByID(ctx, tok.TokenID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !stored.Cancelled {
		t.Error("token not cancelled")
	}

	if _, err := svc.Resolve(ctx, tok.TokenID); err != ErrBookingCancelled {
		t.Errorf("Resolve() error = %v, want ErrBookingCancelled", err)
	}
}

func TestResolveUnknownToken(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Resolve(context.Background(), "ADD-NOPE"); err != ErrInvalid {
		t.Errorf("Resolve() error = %v, want ErrInvalid", err)
	}
}
