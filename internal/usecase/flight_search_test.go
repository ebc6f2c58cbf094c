package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/pkg/logger"
	"flightsearch-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlightSearch(searcher *fakeFlightSearcher) (*FlightSearchService, *metrics.Metrics) {
	m := metrics.NewNopMetrics()
	log := logger.NewNopLogger()
	resolver := NewAirlineResolver(newFakeAirlineLookup(), log, m, time.Second)
	sessions := NewSessionStore(time.Hour, log, m)

	svc := NewFlightSearchService(searcher, resolver, sessions, log, m, "USD", 50)
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) }
	return svc, m
}

func validParams() entity.SearchParams {
	return entity.SearchParams{Origin: " jfk", Destination: "lhr ", DepartureDate: "2026-11-01", Adults: 1}
}

func TestFlightSearch_InvalidParamsSkipUpstream(t *testing.T) {
	searcher := &fakeFlightSearcher{}
	svc, m := newTestFlightSearch(searcher)

	params := validParams()
	params.DepartureDate = "2026-10-13"
	_, err := svc.Search(context.Background(), params)

	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)
	assert.Zero(t, searcher.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues(metrics.OutcomeRejected)))
}

func TestFlightSearch_UpstreamFailure(t *testing.T) {
	searcher := &fakeFlightSearcher{err: errors.New("amadeus: HTTP 500: boom")}
	svc, m := newTestFlightSearch(searcher)

	_, err := svc.Search(context.Background(), validParams())

	var serr *SearchError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "flight", serr.Op)
	assert.Equal(t, "Failed to fetch flight results. Please try again.", serr.UserMessage())
	assert.ErrorIs(t, err, searcher.err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues(metrics.OutcomeFailure)))
}

func TestFlightSearch_OpensSession(t *testing.T) {
	searcher := &fakeFlightSearcher{offers: []entity.FlightOffer{
		offerWithPrice("1", "700", "PT7H"),
		offerWithPrice("2", "450", "PT8H"),
	}}
	svc, _ := newTestFlightSearch(searcher)

	session, err := svc.Search(context.Background(), validParams())
	require.NoError(t, err)

	// codes are normalized and defaults applied before the request
	assert.Equal(t, "JFK", searcher.last.Origin)
	assert.Equal(t, "LHR", searcher.last.Destination)
	assert.Equal(t, "USD", searcher.last.Currency)
	assert.Equal(t, 50, searcher.last.Max)
	assert.Equal(t, searcher.last, session.Params)

	ctx, cancel := waitCtx()
	defer cancel()
	require.NoError(t, session.Pipeline.WaitReady(ctx))
	assert.Equal(t, []string{"2", "1"}, offerIDs(session.Pipeline.View(entity.SortPrice)))

	got, err := svc.Session(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)

	require.NoError(t, svc.Discard(session.ID))
	assert.ErrorIs(t, svc.Discard(session.ID), ErrSessionNotFound)
	_, err = svc.Session(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFlightSearch_EmptyResults(t *testing.T) {
	svc, _ := newTestFlightSearch(&fakeFlightSearcher{})

	session, err := svc.Search(context.Background(), validParams())
	require.NoError(t, err)
	assert.Equal(t, StateReady, session.Pipeline.State())
	assert.Empty(t, session.Pipeline.View(entity.SortNone))
}

func TestFlightSearch_KeepsRequestedMax(t *testing.T) {
	searcher := &fakeFlightSearcher{}
	svc, _ := newTestFlightSearch(searcher)

	params := validParams()
	params.Max = 5
	_, err := svc.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 5, searcher.last.Max)
}
