// File: database/repository/booking/queries.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"furever/models"
)

// GetByProvider returns every booking for the provider, cancelled ones
// included; reconciliation decides which are relevant.
func (r *mongoBookingRepo) GetByProvider(ctx context.Context, providerID string) ([]models.BookingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"providerId": providerID}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.BookingRecord
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetByProviderAndDateRange scopes the booking fetch to [from, to].
func (r *mongoBookingRepo) GetByProviderAndDateRange(ctx context.Context, providerID, from, to string) ([]models.BookingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"providerId": providerID,
		"date":       bson.M{"$gte": from, "$lte": to},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings in range: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.BookingRecord
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
