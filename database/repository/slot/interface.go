// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"errors"

	"museumgate/config"
	"museumgate/database"
	"museumgate/models"
	"museumgate/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrCapacityExceeded means the reservation would push booked past capacity.
	ErrCapacityExceeded = errors.New("slot capacity exceeded")
	// ErrSlotNotBookable means the slot exists but is closed to bookings (lunch hour).
	ErrSlotNotBookable = errors.New("slot not bookable")
	// ErrSlotNotFound means no slot matches the (date, label) key.
	ErrSlotNotFound = errors.New("slot not found")
)

// SlotRepository is the ledger of booked counts per (date, label). All
// mutations of the booked counter go through here and nowhere else.
type SlotRepository interface {
	EnsureDay(ctx context.Context, date string) error
	ListDay(ctx context.Context, date string) ([]models.TimeSlot, error)
	Reserve(ctx context.Context, date, label string, count int) error
	Release(ctx context.Context, date, label string, count int) error
}

type mongoSlotRepo struct {
	coll      *mongo.Collection
	capacity  int
	lunchSlot string
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	db := database.MongoClient.Database("museumgate")
	repo := &mongoSlotRepo{
		coll:      db.Collection("timeslots"),
		capacity:  config.AppConfig.SlotCapacity,
		lunchSlot: config.AppConfig.LunchSlot,
	}
	if err := repo.EnsureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("slot repo: %v", err)
	}
	return repo
}
