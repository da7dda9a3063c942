// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"
	"time"

	"museumgate/database"
	"museumgate/models"
	"museumgate/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound means no booking (or embedded visitor) matched the key.
	ErrNotFound = errors.New("booking not found")
	// ErrStatusConflict means a conditional status transition found the
	// booking in a different state than required.
	ErrStatusConflict = errors.New("booking status conflict")
)

// ClaimOutcome is the result of a conditional check-in claim.
type ClaimOutcome int

const (
	ClaimWon ClaimOutcome = iota
	ClaimAlreadyCheckedIn
	ClaimCancelled
	ClaimNotApproved
	ClaimNotFound
)

// BookingRepository persists bookings and their embedded visitors. Visitor
// status fields are mutated only through the conditional operations here.
type BookingRepository interface {
	Insert(ctx context.Context, b models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByVisitorID(ctx context.Context, visitorID string) (*models.Booking, error)
	ListByDate(ctx context.Context, date string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) error
	ClaimVisitorCheckIn(ctx context.Context, visitorID string, at time.Time) (ClaimOutcome, *models.Booking, error)
	CompleteVisitorDetails(ctx context.Context, bookingID, visitorID string, details models.VisitorDetails, institution, purpose string) error
	Delete(ctx context.Context, id string) error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("museumgate")
	repo := &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("booking repo: %v", err)
	}
	return repo
}
