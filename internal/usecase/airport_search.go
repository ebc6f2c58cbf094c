package usecase

import (
	"context"
	"strings"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/internal/domain/repository"
	"flightsearch-service/pkg/logger"
	"flightsearch-service/pkg/metrics"
)

// MinKeywordLength is the shortest keyword sent upstream
const MinKeywordLength = 2

// AirportService serves airport and city autocomplete
type AirportService struct {
	searcher repository.LocationSearcher
	cache    repository.LocationRepository
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewAirportService creates an airport service. cache may be nil.
func NewAirportService(searcher repository.LocationSearcher, cache repository.LocationRepository, logger logger.Logger, metrics *metrics.Metrics) *AirportService {
	return &AirportService{
		searcher: searcher,
		cache:    cache,
		logger:   logger,
		metrics:  metrics,
	}
}

// Search returns locations matching keyword. Keywords shorter than MinKeywordLength
// return no locations without a request. Upstream failures return *SearchError and are not cached.
func (s *AirportService) Search(ctx context.Context, keyword string) ([]entity.Location, error) {
	keyword = strings.ToUpper(strings.TrimSpace(keyword))
	if len(keyword) < MinKeywordLength {
		return []entity.Location{}, nil
	}

	if s.cache != nil {
		locations, found, err := s.cache.FindByKeyword(ctx, keyword)
		if err != nil {
			s.logger.Warn("Location cache read failed", "keyword", keyword, "error", err)
			s.metrics.ErrorsCount.WithLabelValues("location_cache").Inc()
		} else if found {
			s.metrics.LocationCache.WithLabelValues(metrics.OutcomeHit).Inc()
			return locations, nil
		}
		s.metrics.LocationCache.WithLabelValues(metrics.OutcomeMiss).Inc()
	}

	locations, err := s.searcher.SearchLocations(ctx, keyword)
	if err != nil {
		s.metrics.ErrorsCount.WithLabelValues("airport_search").Inc()
		s.logger.Error("Airport search failed", "keyword", keyword, "error", err)
		return nil, &SearchError{Op: "airport", Err: err}
	}
	if locations == nil {
		locations = []entity.Location{}
	}

	if s.cache != nil {
		if err := s.cache.SaveKeyword(ctx, keyword, locations); err != nil {
			s.logger.Warn("Location cache write failed", "keyword", keyword, "error", err)
			s.metrics.ErrorsCount.WithLabelValues("location_cache").Inc()
		}
	}

	return locations, nil
}
