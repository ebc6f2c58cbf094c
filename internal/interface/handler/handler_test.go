package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/internal/usecase"
	"flightsearch-service/pkg/logger"
	"flightsearch-service/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFlights struct {
	mu     sync.Mutex
	offers []entity.FlightOffer
	err    error
	calls  int
}

func (s *stubFlights) SearchFlightOffers(ctx context.Context, params entity.SearchParams) ([]entity.FlightOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.offers, s.err
}

type stubLocations struct {
	locations []entity.Location
	err       error
}

func (s *stubLocations) SearchLocations(ctx context.Context, keyword string) ([]entity.Location, error) {
	return s.locations, s.err
}

type stubAirlines struct {
	gate chan struct{}
}

func (s *stubAirlines) LookupAirline(ctx context.Context, code string) ([]entity.Airline, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	switch code {
	case "BA":
		return []entity.Airline{{Code: "BA", BusinessName: "BRITISH AIRWAYS"}}, nil
	case "IB":
		return []entity.Airline{{Code: "IB", CommonName: "IBERIA"}}, nil
	}
	return nil, nil
}

type testEnv struct {
	server   *httptest.Server
	flights  *stubFlights
	airlines *stubAirlines
	service  *usecase.FlightSearchService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.NewNopLogger()
	m := metrics.NewNopMetrics()

	env := &testEnv{
		flights: &stubFlights{offers: []entity.FlightOffer{
			testOffer("1", "BA", "780.00", "PT7H"),
			testOffer("2", "IB", "455.50", "PT9H30M"),
		}},
		airlines: &stubAirlines{},
	}

	resolver := usecase.NewAirlineResolver(env.airlines, log, m, time.Second)
	sessions := usecase.NewSessionStore(time.Hour, log, m)
	env.service = usecase.NewFlightSearchService(env.flights, resolver, sessions, log, m, "EUR", 20)
	airports := usecase.NewAirportService(&stubLocations{locations: []entity.Location{
		{Name: "HEATHROW", IataCode: "LHR", SubType: entity.SubTypeAirport},
	}}, nil, log, m)

	mux := http.NewServeMux()
	NewHandler(env.service, airports, resolver, log).Register(mux)
	env.server = httptest.NewServer(mux)
	t.Cleanup(env.server.Close)
	return env
}

func testOffer(id, carrier, total, duration string) entity.FlightOffer {
	return entity.FlightOffer{
		ID: id,
		Itineraries: []entity.Itinerary{{
			Duration: duration,
			Segments: []entity.Segment{{
				ID:          "1",
				Departure:   &entity.FlightEndpoint{IataCode: "MAD", At: "2099-01-15T07:05:00"},
				Arrival:     &entity.FlightEndpoint{IataCode: "JFK", At: "2099-01-15T09:35:00"},
				CarrierCode: carrier,
				Number:      "6251",
			}},
		}},
		Price: &entity.Price{Currency: "EUR", Total: total},
	}
}

func getJSON(t *testing.T, url string, dest any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dest != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
	}
	return resp.StatusCode
}

const flightsQuery = "/api/flights?origin=mad&destination=jfk&date=2099-01-15&adults=1"

func TestSearchFlights_OpensSession(t *testing.T) {
	env := newTestEnv(t)

	var body sessionResponse
	status := getJSON(t, env.server.URL+flightsQuery+"&sort=price", &body)
	require.Equal(t, http.StatusOK, status)

	assert.NotEmpty(t, body.SessionID)
	assert.Equal(t, "price", body.Sort)
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Offers, 2)
	assert.Equal(t, "2", body.Offers[0].ID)
	assert.Equal(t, 1, body.Offers[0].Index)
	assert.Equal(t, "455.50 EUR", body.Offers[0].Price.Total)
	assert.Equal(t, "9h 30m", body.Offers[0].Itineraries[0].Duration)
}

func TestSearchFlights_ValidationError(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"missing origin", "/api/flights?destination=JFK&date=2099-01-15", "origin"},
		{"past date", "/api/flights?origin=MAD&destination=JFK&date=2000-01-01", "date"},
		{"bad adults", flightsQuery + "&adults=two", "adults"},
		{"bad sort", flightsQuery + "&sort=cheapest", "sort"},
		{"bad cabin", flightsQuery + "&cabin=luxury", "travelClass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]string
			status := getJSON(t, env.server.URL+tt.query, &body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.field, body["field"])
			assert.NotEmpty(t, body["error"])
		})
	}
	assert.Zero(t, env.flights.calls)
}

func TestSearchFlights_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.flights.err = errors.New("amadeus: HTTP 500: internal")

	var body map[string]string
	status := getJSON(t, env.server.URL+flightsQuery, &body)

	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "Failed to fetch flight results. Please try again.", body["error"])
}

func TestGetSession_LongPollUntilNamesResolve(t *testing.T) {
	env := newTestEnv(t)
	env.airlines.gate = make(chan struct{})

	var created sessionResponse
	require.Equal(t, http.StatusOK, getJSON(t, env.server.URL+flightsQuery, &created))
	assert.Equal(t, "awaiting_enrichment", created.State)
	assert.Equal(t, "BA", created.Offers[0].Itineraries[0].Segments[0].CarrierName)

	close(env.airlines.gate)
	session, err := env.service.Session(created.SessionID)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, session.Pipeline.WaitReady(ctx))

	var body sessionResponse
	require.Equal(t, http.StatusOK, getJSON(t, env.server.URL+"/api/sessions/"+created.SessionID+"?wait=5", &body))
	assert.Equal(t, "ready", body.State)
	assert.Equal(t, 0, body.Pending)
	assert.Equal(t, "BRITISH AIRWAYS", body.Offers[0].Itineraries[0].Segments[0].CarrierName)
	assert.Equal(t, "IBERIA", body.Offers[1].Itineraries[0].Segments[0].CarrierName)
}

func TestGetSession_WaitReturnsOnChange(t *testing.T) {
	env := newTestEnv(t)
	env.airlines.gate = make(chan struct{})

	var created sessionResponse
	require.Equal(t, http.StatusOK, getJSON(t, env.server.URL+flightsQuery, &created))

	done := make(chan sessionResponse, 1)
	go func() {
		var body sessionResponse
		getJSON(t, env.server.URL+"/api/sessions/"+created.SessionID+"?wait=10", &body)
		done <- body
	}()

	time.Sleep(50 * time.Millisecond)
	close(env.airlines.gate)

	select {
	case body := <-done:
		assert.Equal(t, created.SessionID, body.SessionID)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "long poll did not return after a change")
	}
}

func TestGetSession_WaitOnReadySessionReturnsAtOnce(t *testing.T) {
	env := newTestEnv(t)

	var created sessionResponse
	require.Equal(t, http.StatusOK, getJSON(t, env.server.URL+flightsQuery, &created))
	session, err := env.service.Session(created.SessionID)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, session.Pipeline.WaitReady(ctx))

	start := time.Now()
	var body sessionResponse
	require.Equal(t, http.StatusOK, getJSON(t, env.server.URL+"/api/sessions/"+created.SessionID+"?wait=30", &body))
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, "ready", body.State)
}

func TestGetOffer(t *testing.T) {
	env := newTestEnv(t)

	var created sessionResponse
	require.Equal(t, http.StatusOK, getJSON(t, env.server.URL+flightsQuery, &created))
	base := env.server.URL + "/api/sessions/" + created.SessionID + "/offers/"

	var offer entity.OfferView
	require.Equal(t, http.StatusOK, getJSON(t, base+"1", &offer))
	assert.Equal(t, "2", offer.ID)
	assert.Equal(t, "07:05", offer.Itineraries[0].Segments[0].DepartureTime)
	assert.Equal(t, "2099-01-15 07:05", offer.Itineraries[0].Segments[0].DepartureDateTime)

	assert.Equal(t, http.StatusNotFound, getJSON(t, base+"9", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, base+"first", nil))
}

func TestDeleteSession(t *testing.T) {
	env := newTestEnv(t)

	var created sessionResponse
	require.Equal(t, http.StatusOK, getJSON(t, env.server.URL+flightsQuery, &created))

	req, err := http.NewRequest(http.MethodDelete, env.server.URL+"/api/sessions/"+created.SessionID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Equal(t, http.StatusNotFound, getJSON(t, env.server.URL+"/api/sessions/"+created.SessionID, nil))
}

func TestSearchAirports(t *testing.T) {
	env := newTestEnv(t)

	var locations []entity.Location
	require.Equal(t, http.StatusOK, getJSON(t, env.server.URL+"/api/airports?keyword=lhr", &locations))
	require.Len(t, locations, 1)
	assert.Equal(t, "LHR", locations[0].IataCode)

	locations = nil
	require.Equal(t, http.StatusOK, getJSON(t, env.server.URL+"/api/airports?keyword=l", &locations))
	assert.Empty(t, locations)
}

func TestSearchAirports_UpstreamFailure(t *testing.T) {
	log := logger.NewNopLogger()
	m := metrics.NewNopMetrics()
	airports := usecase.NewAirportService(&stubLocations{err: errors.New("timeout")}, nil, log, m)
	resolver := usecase.NewAirlineResolver(&stubAirlines{}, log, m, time.Second)

	mux := http.NewServeMux()
	NewHandler(nil, airports, resolver, log).Register(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var body map[string]string
	assert.Equal(t, http.StatusBadGateway, getJSON(t, srv.URL+"/api/airports?keyword=PAR", &body))
	assert.Equal(t, "Failed to fetch airport results. Please try again.", body["error"])
}

func TestGetAirline(t *testing.T) {
	env := newTestEnv(t)

	var body airlineResponse
	require.Equal(t, http.StatusOK, getJSON(t, env.server.URL+"/api/airline?code=ba", &body))
	assert.Equal(t, airlineResponse{Code: "BA", Name: "BRITISH AIRWAYS"}, body)

	require.Equal(t, http.StatusOK, getJSON(t, env.server.URL+"/api/airline?code=QQ", &body))
	assert.Equal(t, "QQ", body.Name)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, env.server.URL+"/api/airline", nil))
}
