// File: services/checkin/backup_test.go
package checkin

import (
	"context"
	"testing"

	"museumgate/models"
)

func TestResolveManualRouting(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		code         string
		bookings     []models.Booking
		tokens       []models.SupplementaryToken
		events       *fakeEventsGateway
		wantSuccess  bool
		wantCode     string
		wantCategory string
	}{
		{
			name: "numeric code goes to the events collaborator",
			code: "482915",
			events: &fakeEventsGateway{resp: &models.EventCheckInResponse{
				Code:         models.CodeCheckedIn,
				Registration: models.EventRegistration{ID: "482915", FirstName: "Ana", LastName: "Silva"},
			}},
			wantSuccess: true,
			wantCode:    models.CodeCheckedIn,
		},
		{
			name: "EVT-prefixed code goes to the events collaborator",
			code: "EVT-2026-0042",
			events: &fakeEventsGateway{resp: &models.EventCheckInResponse{
				Code:         models.CodeAlreadyCheckedIn,
				Registration: models.EventRegistration{ID: "EVT-2026-0042"},
			}},
			wantCode: models.CodeAlreadyCheckedIn,
		},
		{
			name: "token id doubles as backup code",
			code: "ADD-1A2B3C4D",
			bookings: []models.Booking{
				approvedBooking("b1", "v2"),
			},
			tokens: []models.SupplementaryToken{
				{TokenID: "ADD-1A2B3C4D", Kind: models.TokenAdditional, BookingID: "b1", VisitorID: "v2"},
			},
			wantSuccess:  true,
			wantCode:     models.CodeCheckedIn,
			wantCategory: "Additional visitor",
		},
		{
			name:         "bare visitor id of a primary visitor",
			code:         "v1",
			bookings:     []models.Booking{approvedBooking("b1", "v1")},
			wantSuccess:  true,
			wantCode:     models.CodeCheckedIn,
			wantCategory: "Primary visitor",
		},
		{
			name:     "unknown code",
			code:     "no-such-code",
			wantCode: models.CodeNotFound,
		},
		{
			name:     "blank input",
			code:     "   ",
			wantCode: models.CodeInvalidFormat,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &DefaultCheckInService{
				Bookings: newFakeBookingRepo(tc.bookings...),
				Tokens:   newFakeTokenRepo(tc.tokens...),
				Events:   tc.events,
			}

			res, err := svc.ResolveManual(ctx, tc.code)
			if err != nil {
				t.Fatalf("ResolveManual() error = %v", err)
			}
			if res.Success != tc.wantSuccess {
				t.Errorf("Success = %v, want %v", res.Success, tc.wantSuccess)
			}
			if res.Code != tc.wantCode {
				t.Errorf("Code = %q, want %q", res.Code, tc.wantCode)
			}
			if tc.wantCategory != "" {
				if res.Visitor == nil {
					t.Fatalf("expected visitor summary, got none")
				}
				if res.Visitor.Category != tc.wantCategory {
					t.Errorf("Category = %q, want %q", res.Visitor.Category, tc.wantCategory)
				}
			}
		})
	}
}

func TestResolveManualMarksEventCheckInsManual(t *testing.T) {
	gw := &fakeEventsGateway{resp: &models.EventCheckInResponse{
		Code:         models.CodeCheckedIn,
		Registration: models.EventRegistration{ID: "1001"},
	}}
	svc := &DefaultCheckInService{
		Bookings: newFakeBookingRepo(),
		Tokens:   newFakeTokenRepo(),
		Events:   gw,
	}

	if _, err := svc.ResolveManual(context.Background(), "1001"); err != nil {
		t.Fatalf("ResolveManual() error = %v", err)
	}
	if !gw.lastManual {
		t.Error("manual entry must be flagged to the events collaborator")
	}
	if gw.lastRegID != "1001" {
		t.Errorf("registration id = %q, want %q", gw.lastRegID, "1001")
	}
}
