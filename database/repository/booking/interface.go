// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"

	"furever/database"
	"furever/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository reads customer bookings for reconciliation. The
// scheduling engine never writes bookings; that side is owned by the
// booking service.
type BookingRepository interface {
	GetByProvider(ctx context.Context, providerID string) ([]models.BookingRecord, error)
	GetByProviderAndDateRange(ctx context.Context, providerID, from, to string) ([]models.BookingRecord, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("furever")
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}
