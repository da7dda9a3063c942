// File: database/repository/slot/crud.go
package slotRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"museumgate/models"
)

// EnsureDay creates the fixed slot grid for a date if it does not exist yet.
// Slots are created implicitly on first query and never hard-deleted.
func (r *mongoSlotRepo) EnsureDay(ctx context.Context, date string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	writes := make([]mongo.WriteModel, 0, len(models.SlotLabels))
	for _, label := range models.SlotLabels {
		filter := bson.M{"date": date, "label": label}
		doc := bson.M{
			"$setOnInsert": models.TimeSlot{
				ID:       uuid.New().String(),
				Date:     date,
				Label:    label,
				Capacity: r.capacity,
				Booked:   0,
				Version:  0,
			},
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(filter).
			SetUpdate(doc).
			SetUpsert(true))
	}

	_, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}

// ListDay returns the bookable slots for a date in grid order. The lunch
// window is filtered out of every listing.
func (r *mongoSlotRepo) ListDay(ctx context.Context, date string) ([]models.TimeSlot, error) {
	if err := r.EnsureDay(ctx, date); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"date": date, "label": bson.M{"$ne": r.lunchSlot}}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "label", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.TimeSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}
