// File: database/repository/token/interface.go
package tokenRepo

import (
	"context"
	"errors"

	"museumgate/database"
	"museumgate/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound means no token matches the id.
	ErrNotFound = errors.New("token not found")
	// ErrAlreadyCompleted means the one-shot completion was already consumed.
	ErrAlreadyCompleted = errors.New("token already completed")
)

// TokenRepository persists supplementary tokens. Completion is a conditional
// single-shot update; cancellation fans out per booking.
type TokenRepository interface {
	Insert(ctx context.Context, t models.SupplementaryToken) error
	GetByID(ctx context.Context, tokenID string) (*models.SupplementaryToken, error)
	GetByVisitorID(ctx context.Context, visitorID string) (*models.SupplementaryToken, error)
	MarkCompleted(ctx context.Context, tokenID string) error
	CancelByBooking(ctx context.Context, bookingID string) error
}

type mongoTokenRepo struct {
	coll *mongo.Collection
}

// NewMongoTokenRepo constructs a new MongoDB TokenRepository.
func NewMongoTokenRepo() TokenRepository {
	db := database.MongoClient.Database("museumgate")
	return &mongoTokenRepo{
		coll: db.Collection("tokens"),
	}
}
