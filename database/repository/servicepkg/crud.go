// File: database/repository/servicepkg/crud.go
package servicepkgRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"furever/models"
)

// GetByProvider returns all service packages for the provider, sorted
// by name for stable presentation.
func (r *mongoServicePackageRepo) GetByProvider(ctx context.Context, providerID string) ([]models.ServicePackage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"providerId": providerID}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query service packages: %w", err)
	}
	defer cursor.Close(ctx)

	var packages []models.ServicePackage
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}
