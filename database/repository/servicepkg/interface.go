// File: database/repository/servicepkg/interface.go
package servicepkgRepo

import (
	"context"

	"furever/database"
	"furever/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ServicePackageRepository reads the cremation packages a provider
// offers, used to populate slot service-selection.
type ServicePackageRepository interface {
	GetByProvider(ctx context.Context, providerID string) ([]models.ServicePackage, error)
}

type mongoServicePackageRepo struct {
	coll *mongo.Collection
}

// NewMongoServicePackageRepo constructs a new MongoDB ServicePackageRepository.
func NewMongoServicePackageRepo() ServicePackageRepository {
	db := database.MongoClient.Database("furever")
	return &mongoServicePackageRepo{
		coll: db.Collection("service_packages"),
	}
}
