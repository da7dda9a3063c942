// File: services/booking/service_test.go
package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	bookingRepo "museumgate/database/repository/booking"
	slotRepo "museumgate/database/repository/slot"
	"museumgate/models"
)

const (
	testCapacity = 30
	testLunch    = "12:00 - 13:00"
)

// memSlotRepo is an in-memory slot ledger with the same conditional
// reservation semantics as the Mongo implementation.
type memSlotRepo struct {
	mu     sync.Mutex
	booked map[string]int // date|label -> booked
}

func newMemSlotRepo() *memSlotRepo {
	return &memSlotRepo{booked: make(map[string]int)}
}

func slotKey(date, label string) string { return date + "|" + label }

func (r *memSlotRepo) EnsureDay(context.Context, string) error { return nil }

func (r *memSlotRepo) ListDay(_ context.Context, date string) ([]models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TimeSlot
	for _, label := range models.SlotLabels {
		if label == testLunch {
			continue
		}
		out = append(out, models.TimeSlot{
			Date:     date,
			Label:    label,
			Capacity: testCapacity,
			Booked:   r.booked[slotKey(date, label)],
		})
	}
	return out, nil
}

func (r *memSlotRepo) Reserve(_ context.Context, date, label string, count int) error {
	if label == testLunch {
		return slotRepo.ErrSlotNotBookable
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.booked[slotKey(date, label)]+count > testCapacity {
		return slotRepo.ErrCapacityExceeded
	}
	r.booked[slotKey(date, label)] += count
	return nil
}

func (r *memSlotRepo) Release(_ context.Context, date, label string, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := slotKey(date, label)
	r.booked[key] -= count
	if r.booked[key] < 0 {
		r.booked[key] = 0
	}
	return nil
}

func (r *memSlotRepo) bookedCount(date, label string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booked[slotKey(date, label)]
}

// memBookingRepo stores bookings in memory. insertErr, when set, fails every
// insert to exercise the rollback path.
type memBookingRepo struct {
	mu        sync.Mutex
	bookings  map[string]*models.Booking
	insertErr error
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *memBookingRepo) Insert(_ context.Context, b models.Booking) error {
	if r.insertErr != nil {
		return r.insertErr
	}
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

func (r *memBookingRepo) ListByDate(_ context.Context, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Date == date {
			out = append(out, *b)
		}
	}
	return out, nil
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

func (r *memBookingRepo) CompleteVisitorDetails(context.Context, string, string, models.VisitorDetails, string, string) error {
	return nil
}

func (r *memBookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return bookingRepo.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

// recordingTokenService records issued kinds per visitor and cancelled
// booking ids.
type recordingTokenService struct {
	mu        sync.Mutex
	issued    map[string]models.TokenKind // visitorID -> kind
	cancelled []string
}

func newRecordingTokenService() *recordingTokenService {
	return &recordingTokenService{issued: make(map[string]models.TokenKind)}
}

func (s *recordingTokenService) Issue(_ context.Context, kind models.TokenKind, b models.Booking, visitorID, email string) (*models.SupplementaryToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[visitorID] = kind
	return &models.SupplementaryToken{
		TokenID:   kind.Prefix() + "TEST",
		Kind:      kind,
		BookingID: b.ID,
		VisitorID: visitorID,
		Email:     email,
	}, nil
}

func (s *recordingTokenService) Resolve(context.Context, string) (*models.TokenInfo, error) {
	return nil, errors.New("not implemented")
}

func (s *recordingTokenService) Complete(context.Context, string, models.VisitorDetails) error {
	return errors.New("not implemented")
}

func (s *recordingTokenService) CancelForBooking(_ context.Context, bookingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, bookingID)
	return nil
}

func groupRequest(members int) models.CreateBookingRequest {
	req := models.CreateBookingRequest{
		Kind:      models.BookingGroup,
		Date:      "2026-09-15",
		SlotLabel: "10:00 - 11:00",
		MainVisitor: models.BookVisitorInput{
			FirstName:   "Maya",
			LastName:    "Lindqvist",
			Email:       "maya@example.org",
			Institution: "Northfield College",
			Purpose:     "Research visit",
		},
	}
	for i := 0; i < members; i++ {
		req.GroupMembers = append(req.GroupMembers, models.BookVisitorInput{
			FirstName: fmt.Sprintf("Member%d", i),
			LastName:  "Lindqvist",
		})
	}
	return req
}

func newTestService() (*DefaultBookingService, *memSlotRepo, *memBookingRepo, *recordingTokenService) {
	slots := newMemSlotRepo()
	bookings := newMemBookingRepo()
	tokens := newRecordingTokenService()
	svc := &DefaultBookingService{
		Slots:    slots,
		Bookings: bookings,
		TokenSvc: tokens,
	}
	return svc, slots, bookings, tokens
}

func TestCreateBookingCapacityBoundary(t *testing.T) {
	ctx := context.Background()
	svc, slots, _, _ := newTestService()

	// 29 of 30 units taken.
	if _, err := svc.CreateBooking(ctx, groupRequest(28)); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}
	if got := slots.bookedCount("2026-09-15", "10:00 - 11:00"); got != 29 {
		t.Fatalf("booked = %d, want 29", got)
	}

	// A pair no longer fits and must not change the count.
	if _, err := svc.CreateBooking(ctx, groupRequest(1)); err != ErrSlotFull {
		t.Fatalf("overflow booking error = %v, want ErrSlotFull", err)
	}
	if got := slots.bookedCount("2026-09-15", "10:00 - 11:00"); got != 29 {
		t.Errorf("booked = %d after rejected booking, want 29", got)
	}

	// A single visitor still fits exactly.
	if _, err := svc.CreateBooking(ctx, groupRequest(0)); err != nil {
		t.Fatalf("final single booking failed: %v", err)
	}
	if got := slots.bookedCount("2026-09-15", "10:00 - 11:00"); got != 30 {
		t.Errorf("booked = %d, want 30", got)
	}
}

func TestCreateBookingLunchSlotRejected(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := groupRequest(0)
	req.SlotLabel = testLunch
	if _, err := svc.CreateBooking(context.Background(), req); err != ErrSlotNotBookable {
		t.Fatalf("error = %v, want ErrSlotNotBookable", err)
	}
}

func TestCreateBookingRollsBackOnInsertFailure(t *testing.T) {
	svc, slots, bookings, _ := newTestService()
	bookings.insertErr = errors.New("write concern failure")

	if _, err := svc.CreateBooking(context.Background(), groupRequest(4)); err == nil {
		t.Fatal("expected an error when the insert fails")
	}
	if got := slots.bookedCount("2026-09-15", "10:00 - 11:00"); got != 0 {
		t.Errorf("booked = %d after rollback, want 0", got)
	}
}

func TestConcurrentBookingsNeverOverbook(t *testing.T) {
	ctx := context.Background()
	svc, slots, _, _ := newTestService()

	const attempts = testCapacity + 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(ctx, groupRequest(0))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var won, full int
	for err := range results {
		switch err {
		case nil:
			won++
		case ErrSlotFull:
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != testCapacity {
		t.Errorf("winners = %d, want %d", won, testCapacity)
	}
	if full != attempts-testCapacity {
		t.Errorf("rejections = %d, want %d", full, attempts-testCapacity)
	}
	if got := slots.bookedCount("2026-09-15", "10:00 - 11:00"); got != testCapacity {
		t.Errorf("booked = %d, want %d", got, testCapacity)
	}
}

func TestCancelBookingFreesCapacityAndTokens(t *testing.T) {
	ctx := context.Background()
	svc, slots, _, tokens := newTestService()

	b, err := svc.CreateBooking(ctx, groupRequest(4))
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}
	if got := slots.bookedCount("2026-09-15", "10:00 - 11:00"); got != 5 {
		t.Fatalf("booked = %d, want 5", got)
	}

	if err := svc.CancelBooking(ctx, b.ID); err != nil {
		t.Fatalf("CancelBooking() error = %v", err)
	}
	if got := slots.bookedCount("2026-09-15", "10:00 - 11:00"); got != 0 {
		t.Errorf("booked = %d after cancel, want 0", got)
	}
	if len(tokens.cancelled) != 1 || tokens.cancelled[0] != b.ID {
		t.Errorf("cancelled tokens for %v, want [%s]", tokens.cancelled, b.ID)
	}

	got, err := svc.GetBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBooking() error = %v", err)
	}
	if got.Status != models.BookingCancelled {
		t.Errorf("status = %q, want %q", got.Status, models.BookingCancelled)
	}

	// Cancelling twice is an invalid transition, not a second release.
	if err := svc.CancelBooking(ctx, b.ID); err != ErrInvalidTransition {
		t.Errorf("second cancel error = %v, want ErrInvalidTransition", err)
	}
	if got := slots.bookedCount("2026-09-15", "10:00 - 11:00"); got != 0 {
		t.Errorf("booked = %d after double cancel, want 0", got)
	}
}

func TestApproveBookingTransitions(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService()

	b, err := svc.CreateBooking(ctx, groupRequest(0))
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	if err := svc.ApproveBooking(ctx, b.ID); err != nil {
		t.Fatalf("ApproveBooking() error = %v", err)
	}
	if err := svc.ApproveBooking(ctx, b.ID); err != ErrInvalidTransition {
		t.Errorf("second approve error = %v, want ErrInvalidTransition", err)
	}
	if err := svc.ApproveBooking(ctx, "nope"); err != ErrNotFound {
		t.Errorf("approve missing error = %v, want ErrNotFound", err)
	}
}

func TestWalkInIsApprovedImmediately(t *testing.T) {
	ctx := context.Background()
	svc, _, _, tokens := newTestService()

	b, err := svc.RegisterWalkIn(ctx, groupRequest(2))
	if err != nil {
		t.Fatalf("RegisterWalkIn() error = %v", err)
	}
	if b.Status != models.BookingApproved {
		t.Errorf("status = %q, want %q", b.Status, models.BookingApproved)
	}
	if !b.WalkIn {
		t.Error("walk-in flag not set")
	}

	primary := b.Primary()
	if primary == nil {
		t.Fatal("no primary visitor")
	}
	if kind := tokens.issued[primary.ID]; kind != models.TokenGroupLeader {
		t.Errorf("primary token kind = %q, want %q", kind, models.TokenGroupLeader)
	}
	for _, v := range b.Visitors {
		if v.IsPrimary {
			continue
		}
		if kind := tokens.issued[v.ID]; kind != models.TokenGroupMember {
			t.Errorf("member token kind = %q, want %q", kind, models.TokenGroupMember)
		}
	}
}

func TestOnlineBookingTokenKinds(t *testing.T) {
	ctx := context.Background()
	svc, _, _, tokens := newTestService()

	req := groupRequest(2)
	req.Kind = models.BookingIndividual
	b, err := svc.CreateBooking(ctx, req)
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	primary := b.Primary()
	if primary == nil {
		t.Fatal("no primary visitor")
	}
	if _, ok := tokens.issued[primary.ID]; ok {
		t.Error("online primary visitor must not get a supplementary token")
	}
	for _, v := range b.Visitors {
		if v.IsPrimary {
			continue
		}
		if kind := tokens.issued[v.ID]; kind != models.TokenAdditional {
			t.Errorf("co-visitor token kind = %q, want %q", kind, models.TokenAdditional)
		}
		if v.Institution != primary.Institution || v.Purpose != primary.Purpose {
			t.Errorf("co-visitor %s did not inherit institution/purpose", v.ID)
		}
	}
}
