// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"
	"errors"

	"furever/database"
	"furever/models"
	"furever/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrInvalidRecord marks a write the store refused on validation
// grounds, as opposed to a transport failure.
var ErrInvalidRecord = errors.New("invalid availability record")

// AvailabilityRepository is the durable store boundary for provider
// day-availability records. SaveDay is an idempotent replace-by-date
// upsert; SaveBatch reports per-date failures instead of aborting.
type AvailabilityRepository interface {
	GetByDateRange(ctx context.Context, providerID, from, to string) ([]models.DayAvailability, error)
	GetByMonth(ctx context.Context, providerID string, year, month int) ([]models.DayAvailability, error)
	GetByYear(ctx context.Context, providerID string, year int) ([]models.DayAvailability, error)
	SaveDay(ctx context.Context, day models.DayAvailability) error
	SaveBatch(ctx context.Context, days []models.DayAvailability) (models.BatchResult, error)
	DeleteSlot(ctx context.Context, providerID, date, slotID string) error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	db := database.MongoClient.Database("furever")
	repo := &mongoAvailabilityRepo{
		coll: db.Collection("availability"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		utils.GetLogger().Warn("availability repo: failed to ensure indexes", zap.Error(err))
	}
	return repo
}
