package usecase

import (
	"context"
	"fmt"
	"time"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/internal/domain/repository"
	"flightsearch-service/pkg/logger"
	"flightsearch-service/pkg/metrics"
)

// SearchError is a failed upstream search. It is shown to the user; prior results stay untouched.
type SearchError struct {
	Op  string
	Err error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown in the error state
func (e *SearchError) UserMessage() string {
	return "Failed to fetch " + e.Op + " results. Please try again."
}

// FlightSearchService validates searches, runs them upstream and opens a session per response
type FlightSearchService struct {
	searcher        repository.FlightOfferSearcher
	resolver        *AirlineResolver
	sessions        *SessionStore
	logger          logger.Logger
	metrics         *metrics.Metrics
	defaultCurrency string
	maxOffers       int
	now             func() time.Time
}

// NewFlightSearchService creates a new flight search service
func NewFlightSearchService(
	searcher repository.FlightOfferSearcher,
	resolver *AirlineResolver,
	sessions *SessionStore,
	logger logger.Logger,
	metrics *metrics.Metrics,
	defaultCurrency string,
	maxOffers int,
) *FlightSearchService {
	return &FlightSearchService{
		searcher:        searcher,
		resolver:        resolver,
		sessions:        sessions,
		logger:          logger,
		metrics:         metrics,
		defaultCurrency: defaultCurrency,
		maxOffers:       maxOffers,
		now:             time.Now,
	}
}

// Search runs a flight search. Invalid params return *entity.ValidationError without
// calling upstream; upstream failures return *SearchError.
func (s *FlightSearchService) Search(ctx context.Context, params entity.SearchParams) (*Session, error) {
	params = params.Normalized(s.defaultCurrency)
	if err := params.Validate(s.now()); err != nil {
		s.metrics.Searches.WithLabelValues(metrics.OutcomeRejected).Inc()
		s.logger.Info("Rejected flight search", "error", err)
		return nil, err
	}
	if params.Max == 0 {
		params.Max = s.maxOffers
	}

	s.logger.Info("Searching flights",
		"origin", params.Origin,
		"destination", params.Destination,
		"date", params.DepartureDate,
		"adults", params.Adults)

	offers, err := s.searcher.SearchFlightOffers(ctx, params)
	if err != nil {
		s.metrics.Searches.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.metrics.ErrorsCount.WithLabelValues("flight_search").Inc()
		s.logger.Error("Flight search failed", "error", err)
		return nil, &SearchError{Op: "flight", Err: err}
	}
	s.metrics.Searches.WithLabelValues(metrics.OutcomeSuccess).Inc()

	pipeline := NewPipeline(s.resolver, s.logger, s.metrics)
	pipeline.Load(ctx, offers)
	session := s.sessions.Add(params, pipeline)

	s.logger.Info("Search session created", "sessionID", session.ID, "offers", len(offers))
	return session, nil
}

// Session returns a live session
func (s *FlightSearchService) Session(id string) (*Session, error) {
	return s.sessions.Get(id)
}

// Discard drops a session when its views are navigated away from
func (s *FlightSearchService) Discard(id string) error {
	if !s.sessions.Delete(id) {
		return ErrSessionNotFound
	}
	return nil
}
