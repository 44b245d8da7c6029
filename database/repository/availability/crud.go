// File: database/repository/availability/crud.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"furever/models"
)

// SaveDay replaces the stored record for (providerId, date) with the
// supplied one, creating it if absent. Replays with the same payload
// produce the same stored state.
func (r *mongoAvailabilityRepo) SaveDay(ctx context.Context, day models.DayAvailability) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if day.ProviderID == "" || day.Date == "" {
		return fmt.Errorf("%w: missing provider or date", ErrInvalidRecord)
	}
	// Assign durable IDs to slots the client inserted optimistically.
	for i := range day.TimeSlots {
		if day.TimeSlots[i].ID == "" || len(day.TimeSlots[i].ID) < 36 {
			day.TimeSlots[i].ID = uuid.New().String()
		}
	}
	if day.TimeSlots == nil {
		day.TimeSlots = []models.TimeSlot{}
	}

	filter := bson.M{"providerId": day.ProviderID, "date": day.Date}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, filter, day, opts); err != nil {
		return fmt.Errorf("failed to save availability for %s: %w", day.Date, err)
	}
	return nil
}

// SaveBatch applies SaveDay to every record, collecting per-date errors
// rather than failing the whole batch on the first bad record.
func (r *mongoAvailabilityRepo) SaveBatch(ctx context.Context, days []models.DayAvailability) (models.BatchResult, error) {
	result := models.BatchResult{Attempted: len(days)}
	for _, day := range days {
		if err := r.SaveDay(ctx, day); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Failed = append(result.Failed, models.BatchError{Date: day.Date, Error: err.Error()})
			continue
		}
		result.Succeeded++
	}
	return result, nil
}

// DeleteSlot removes exactly one slot from the stored day record.
func (r *mongoAvailabilityRepo) DeleteSlot(ctx context.Context, providerID, date, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"providerId": providerID, "date": date}
	update := bson.M{"$pull": bson.M{"timeSlots": bson.M{"id": slotID}}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to delete slot %s on %s: %w", slotID, date, err)
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
