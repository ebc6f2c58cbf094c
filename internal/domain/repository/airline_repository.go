package repository

import (
	"context"

	"flightsearch-service/internal/domain/entity"
)

// AirlineRepository defines the interface for the stored airline directory
type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
	Save(ctx context.Context, airline *entity.Airline) error
}

// AirlineLookup resolves a carrier code to airline records.
// Implementations return an empty slice when the code is unknown.
type AirlineLookup interface {
	LookupAirline(ctx context.Context, code string) ([]entity.Airline, error)
}
