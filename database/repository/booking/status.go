// File: database/repository/booking/status.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"museumgate/models"
)

// UpdateStatus performs a conditional status transition. The current status
// is part of the filter so concurrent staff actions cannot double-apply.
func (r *mongoBookingRepo) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.coll.CountDocuments(ctx, bson.M{"id": id})
		if err != nil {
			return fmt.Errorf("failed to verify booking existence: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrStatusConflict
	}
	return nil
}

// ClaimVisitorCheckIn stamps the visitor's check-in time exactly once. The
// filter requires an approved booking and an unset checkinTime, so of two
// concurrent scans only one claim wins; the loser gets the outcome describing
// the state it lost to.
func (r *mongoBookingRepo) ClaimVisitorCheckIn(ctx context.Context, visitorID string, at time.Time) (ClaimOutcome, *models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// A group booking stays claimable after its first visitor arrives, so the
	// filter accepts checked_in as well as approved.
	filter := bson.M{
		"status": bson.M{"$in": bson.A{models.BookingApproved, models.BookingCheckedIn}},
		"visitors": bson.M{"$elemMatch": bson.M{
			"id":          visitorID,
			"checkinTime": bson.M{"$exists": false},
		}},
	}
	update := bson.M{"$set": bson.M{
		"visitors.$.checkinTime": at,
		"status":                 models.BookingCheckedIn,
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return ClaimNotFound, nil, fmt.Errorf("failed to claim check-in: %w", err)
	}

	b, err := r.GetByVisitorID(ctx, visitorID)
	if err == ErrNotFound {
		return ClaimNotFound, nil, nil
	}
	if err != nil {
		return ClaimNotFound, nil, err
	}

	if res.MatchedCount > 0 {
		return ClaimWon, b, nil
	}

	// Claim lost: classify the state that blocked it.
	switch b.Status {
	case models.BookingCancelled:
		return ClaimCancelled, b, nil
	case models.BookingPending:
		return ClaimNotApproved, b, nil
	default:
		return ClaimAlreadyCheckedIn, b, nil
	}
}

// CompleteVisitorDetails fills in a co-visitor's own fields. Institution and
// purpose are passed in by the caller from the primary visitor, never from
// client input.
func (r *mongoBookingRepo) CompleteVisitorDetails(ctx context.Context, bookingID, visitorID string, details models.VisitorDetails, institution, purpose string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":       bookingID,
		"visitors": bson.M{"$elemMatch": bson.M{"id": visitorID}},
	}
	update := bson.M{"$set": bson.M{
		"visitors.$.firstName":        details.FirstName,
		"visitors.$.lastName":         details.LastName,
		"visitors.$.gender":           details.Gender,
		"visitors.$.nationality":      details.Nationality,
		"visitors.$.address":          details.Address,
		"visitors.$.email":            details.Email,
		"visitors.$.institution":      institution,
		"visitors.$.purpose":          purpose,
		"visitors.$.detailsCompleted": true,
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to complete visitor details: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
