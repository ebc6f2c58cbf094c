package repository

import (
	"context"

	"flightsearch-service/internal/domain/entity"
)

// FlightOfferSearcher defines the interface for flight offer searches
type FlightOfferSearcher interface {
	SearchFlightOffers(ctx context.Context, params entity.SearchParams) ([]entity.FlightOffer, error)
}
