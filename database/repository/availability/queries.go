// File: database/repository/availability/queries.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"furever/models"
)

// GetByDateRange returns all day records for the provider with dates in
// [from, to], ordered ascending by date. Canonical "YYYY-MM-DD" strings
// compare correctly lexicographically.
func (r *mongoAvailabilityRepo) GetByDateRange(ctx context.Context, providerID, from, to string) ([]models.DayAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"providerId": providerID,
		"date":       bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability range: %w", err)
	}
	defer cursor.Close(ctx)

	var days []models.DayAvailability
	if err := cursor.All(ctx, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// GetByMonth returns all day records within one calendar month.
func (r *mongoAvailabilityRepo) GetByMonth(ctx context.Context, providerID string, year, month int) ([]models.DayAvailability, error) {
	from := fmt.Sprintf("%04d-%02d-01", year, month)
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	to := fmt.Sprintf("%04d-%02d-%02d", year, month, lastDay)
	return r.GetByDateRange(ctx, providerID, from, to)
}

// GetByYear returns all day records within one calendar year.
func (r *mongoAvailabilityRepo) GetByYear(ctx context.Context, providerID string, year int) ([]models.DayAvailability, error) {
	from := fmt.Sprintf("%04d-01-01", year)
	to := fmt.Sprintf("%04d-12-31", year)
	return r.GetByDateRange(ctx, providerID, from, to)
}
