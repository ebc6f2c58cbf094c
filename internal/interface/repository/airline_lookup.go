package repository

import (
	"context"
	"errors"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/internal/domain/repository"
	"flightsearch-service/pkg/logger"
)

// DirectoryAirlineLookup answers from the stored airline directory and falls back to upstream.
// Upstream answers with a display name are written back to the directory.
type DirectoryAirlineLookup struct {
	directory repository.AirlineRepository
	upstream  repository.AirlineLookup
	logger    logger.Logger
}

// NewDirectoryAirlineLookup creates a directory-backed lookup
func NewDirectoryAirlineLookup(directory repository.AirlineRepository, upstream repository.AirlineLookup, logger logger.Logger) *DirectoryAirlineLookup {
	return &DirectoryAirlineLookup{
		directory: directory,
		upstream:  upstream,
		logger:    logger,
	}
}

// LookupAirline implements repository.AirlineLookup
func (l *DirectoryAirlineLookup) LookupAirline(ctx context.Context, code string) ([]entity.Airline, error) {
	stored, err := l.directory.GetByCode(ctx, code)
	switch {
	case err == nil && stored.DisplayName() != "":
		return []entity.Airline{*stored}, nil
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		l.logger.Warn("Airline directory read failed", "code", code, "error", err)
	}

	airlines, err := l.upstream.LookupAirline(ctx, code)
	if err != nil {
		return nil, err
	}

	if len(airlines) > 0 && airlines[0].DisplayName() != "" {
		record := airlines[0]
		if record.Code == "" {
			record.Code = code
		}
		if err := l.directory.Save(ctx, &record); err != nil {
			l.logger.Warn("Airline directory write failed", "code", code, "error", err)
		}
	}

	return airlines, nil
}
