package usecase

import (
	"context"
	"sync"
	"time"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/pkg/logger"
	"flightsearch-service/pkg/metrics"
)

type fakeAirlineLookup struct {
	mu       sync.Mutex
	airlines map[string][]entity.Airline
	errs     map[string]error
	calls    map[string]int
	started  map[string]int
	gate     chan struct{}
}

func newFakeAirlineLookup() *fakeAirlineLookup {
	return &fakeAirlineLookup{
		airlines: map[string][]entity.Airline{
			"BA": {{Code: "BA", BusinessName: "BRITISH AIRWAYS", CommonName: "BRITISH A/W"}},
			"AA": {{Code: "AA", CommonName: "AMERICAN AIRLINES"}},
			"IB": {{Code: "IB", Name: "IBERIA"}},
		},
		errs:    map[string]error{},
		calls:   map[string]int{},
		started: map[string]int{},
	}
}

func (f *fakeAirlineLookup) LookupAirline(ctx context.Context, code string) ([]entity.Airline, error) {
	f.mu.Lock()
	f.started[code]++
	f.mu.Unlock()

	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[code]++
	if err, ok := f.errs[code]; ok {
		return nil, err
	}
	return f.airlines[code], nil
}

func (f *fakeAirlineLookup) callCount(code string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[code]
}

func (f *fakeAirlineLookup) startedCount(code string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started[code]
}

type fakeFlightSearcher struct {
	mu     sync.Mutex
	offers []entity.FlightOffer
	err    error
	calls  int
	last   entity.SearchParams
}

func (f *fakeFlightSearcher) SearchFlightOffers(ctx context.Context, params entity.SearchParams) ([]entity.FlightOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = params
	if f.err != nil {
		return nil, f.err
	}
	return f.offers, nil
}

func newTestResolver(lookup *fakeAirlineLookup) *AirlineResolver {
	return NewAirlineResolver(lookup, logger.NewNopLogger(), metrics.NewNopMetrics(), time.Second)
}

func waitCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}

func segment(id, from, to, depAt, arrAt, carrier, number string) entity.Segment {
	return entity.Segment{
		ID:          id,
		Departure:   &entity.FlightEndpoint{IataCode: from, At: depAt},
		Arrival:     &entity.FlightEndpoint{IataCode: to, At: arrAt},
		CarrierCode: carrier,
		Number:      number,
		Aircraft:    &entity.Aircraft{Code: "32A"},
	}
}

func offerWithPrice(id, total, duration string) entity.FlightOffer {
	return entity.FlightOffer{
		ID: id,
		Itineraries: []entity.Itinerary{{
			Duration: duration,
			Segments: []entity.Segment{segment("1", "JFK", "LHR", "2026-11-01T10:00:00", "2026-11-01T22:00:00", "BA", "178")},
		}},
		Price: &entity.Price{Currency: "USD", Total: total},
	}
}

func offerIDs(views []entity.OfferView) []string {
	ids := make([]string, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	return ids
}
