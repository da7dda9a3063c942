// File: database/repository/slot/aggregates.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Reserve atomically claims count units of a slot. The increment-and-check is
// a single conditional UpdateOne so two concurrent callers for the last seat
// resolve to exactly one success; the filter closes the read-then-write race.
func (r *mongoSlotRepo) Reserve(ctx context.Context, date, label string, count int) error {
	if count <= 0 {
		return fmt.Errorf("reserve count must be positive, got %d", count)
	}
	if label == r.lunchSlot {
		return ErrSlotNotBookable
	}
	if err := r.EnsureDay(ctx, date); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"date":  date,
		"label": label,
		"$expr": bson.M{
			"$lte": bson.A{
				bson.M{"$add": bson.A{"$booked", count}},
				"$capacity",
			},
		},
	}
	update := bson.M{"$inc": bson.M{"booked": count, "version": 1}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reserve slot capacity: %w", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a full slot from an unknown label.
		n, err := r.coll.CountDocuments(ctx, bson.M{"date": date, "label": label})
		if err != nil {
			return fmt.Errorf("failed to verify slot existence: %w", err)
		}
		if n == 0 {
			return ErrSlotNotFound
		}
		return ErrCapacityExceeded
	}
	return nil
}

// Release returns count units to a slot on cancellation. The counter is
// clamped so it never goes below zero.
func (r *mongoSlotRepo) Release(ctx context.Context, date, label string, count int) error {
	if count <= 0 {
		return fmt.Errorf("release count must be positive, got %d", count)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"date":   date,
		"label":  label,
		"booked": bson.M{"$gte": count},
	}
	update := bson.M{"$inc": bson.M{"booked": -count, "version": 1}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release slot capacity: %w", err)
	}
	if res.MatchedCount == 0 {
		// Fewer than count units are booked; clamp to zero.
		clampFilter := bson.M{"date": date, "label": label}
		clampUpdate := bson.M{
			"$set": bson.M{"booked": 0},
			"$inc": bson.M{"version": 1},
		}
		if _, err := r.coll.UpdateOne(ctx, clampFilter, clampUpdate); err != nil {
			return fmt.Errorf("failed to clamp slot counter: %w", err)
		}
	}
	return nil
}
