// File: database/repository/token/crud.go
package tokenRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"museumgate/models"
)

func (r *mongoTokenRepo) Insert(ctx context.Context, t models.SupplementaryToken) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, t)
	return err
}

func (r *mongoTokenRepo) GetByID(ctx context.Context, tokenID string) (*models.SupplementaryToken, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var t models.SupplementaryToken
	err := r.coll.FindOne(ctx, bson.M{"tokenId": tokenID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *mongoTokenRepo) GetByVisitorID(ctx context.Context, visitorID string) (*models.SupplementaryToken, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var t models.SupplementaryToken
	err := r.coll.FindOne(ctx, bson.M{"visitorId": visitorID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkCompleted flips completed exactly once. The filter carries
// completed:false so a resubmission cannot win a second time.
func (r *mongoTokenRepo) MarkCompleted(ctx context.Context, tokenID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"tokenId": tokenID, "completed": false}
	update := bson.M{"$set": bson.M{"completed": true}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark token completed: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.coll.CountDocuments(ctx, bson.M{"tokenId": tokenID})
		if err != nil {
			return fmt.Errorf("failed to verify token existence: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrAlreadyCompleted
	}
	return nil
}

// CancelByBooking invalidates every outstanding token of a cancelled booking
// so they report "booking cancelled" instead of silently succeeding.
func (r *mongoTokenRepo) CancelByBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"bookingId": bookingID}
	update := bson.M{"$set": bson.M{"cancelled": true}}

	if _, err := r.coll.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to cancel tokens for booking %s: %w", bookingID, err)
	}
	return nil
}
