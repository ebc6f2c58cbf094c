package repository

import (
	"context"

	"flightsearch-service/internal/domain/entity"
)

// LocationRepository defines the interface for the location autocomplete cache
type LocationRepository interface {
	// FindByKeyword returns cached locations; found is false on a cache miss
	FindByKeyword(ctx context.Context, keyword string) (locations []entity.Location, found bool, err error)
	SaveKeyword(ctx context.Context, keyword string, locations []entity.Location) error
}

// LocationSearcher searches airports and cities by keyword
type LocationSearcher interface {
	SearchLocations(ctx context.Context, keyword string) ([]entity.Location, error)
}
