package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/internal/usecase"
	"flightsearch-service/pkg/logger"
)

// MaxWait caps the long-poll wait of a session view
const MaxWait = 30 * time.Second

// Handler serves the flight search HTTP API
type Handler struct {
	flights  *usecase.FlightSearchService
	airports *usecase.AirportService
	resolver *usecase.AirlineResolver
	names    *usecase.NameCache
	logger   logger.Logger
}

// NewHandler creates the API handler. Standalone airline lookups share one name cache for the
// lifetime of the handler.
func NewHandler(flights *usecase.FlightSearchService, airports *usecase.AirportService, resolver *usecase.AirlineResolver, logger logger.Logger) *Handler {
	return &Handler{
		flights:  flights,
		airports: airports,
		resolver: resolver,
		names:    usecase.NewNameCache(),
		logger:   logger,
	}
}

// Register mounts the API routes on mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/airports", h.SearchAirports)
	mux.HandleFunc("GET /api/flights", h.SearchFlights)
	mux.HandleFunc("GET /api/sessions/{id}", h.GetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.DeleteSession)
	mux.HandleFunc("GET /api/sessions/{id}/offers/{index}", h.GetOffer)
	mux.HandleFunc("GET /api/airline", h.GetAirline)
}

type sessionResponse struct {
	SessionID  string             `json:"sessionId"`
	State      string             `json:"state"`
	Generation uint64             `json:"generation"`
	Pending    int                `json:"pending"`
	Sort       string             `json:"sort"`
	Count      int                `json:"count"`
	Offers     []entity.OfferView `json:"offers"`
}

type airlineResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SearchAirports handles GET /api/airports?keyword=
func (h *Handler) SearchAirports(w http.ResponseWriter, r *http.Request) {
	locations, err := h.airports.Search(r.Context(), r.URL.Query().Get("keyword"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, locations)
}

// SearchFlights handles GET /api/flights and opens a session for the results
func (h *Handler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	criterion, err := usecase.ParseSortCriterion(query.Get("sort"))
	if err != nil {
		h.respondWithError(w, &entity.ValidationError{Field: "sort", Message: err.Error()})
		return
	}

	params, err := parseSearchParams(query)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	session, err := h.flights.Search(r.Context(), params)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, newSessionResponse(session, criterion))
}

// GetSession handles GET /api/sessions/{id}?sort=&wait=.
// A positive wait (seconds) holds a session that is not ready yet until its view
// changes or wait expires. A ready session answers at once since it no longer changes.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.flights.Session(r.PathValue("id"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	query := r.URL.Query()
	criterion, err := usecase.ParseSortCriterion(query.Get("sort"))
	if err != nil {
		h.respondWithError(w, &entity.ValidationError{Field: "sort", Message: err.Error()})
		return
	}

	wait, err := parseWait(query.Get("wait"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	if wait > 0 {
		// Subscribe before reading the state so no change is missed
		changes, cancel := session.Pipeline.Subscribe()
		defer cancel()

		if session.Pipeline.State() != usecase.StateReady {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-changes:
			case <-timer.C:
			case <-r.Context().Done():
				return
			}
		}
	}

	respondWithJSON(w, http.StatusOK, newSessionResponse(session, criterion))
}

// GetOffer handles GET /api/sessions/{id}/offers/{index}
func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	session, err := h.flights.Session(r.PathValue("id"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.respondWithError(w, &entity.ValidationError{Field: "index", Message: "must be an integer"})
		return
	}

	offer, err := session.Pipeline.Offer(index)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, offer)
}

// DeleteSession handles DELETE /api/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.flights.Discard(r.PathValue("id")); err != nil {
		h.respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAirline handles GET /api/airline?code=
func (h *Handler) GetAirline(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("code")))
	if code == "" {
		h.respondWithError(w, &entity.ValidationError{Field: "code", Message: "carrier code is required"})
		return
	}

	names := h.resolver.Resolve(r.Context(), h.names, []string{code})
	respondWithJSON(w, http.StatusOK, airlineResponse{Code: code, Name: names[code]})
}

func newSessionResponse(session *usecase.Session, criterion entity.SortCriterion) sessionResponse {
	snap := session.Pipeline.Snapshot(criterion)
	return sessionResponse{
		SessionID:  session.ID,
		State:      snap.State.String(),
		Generation: snap.Generation,
		Pending:    snap.Pending,
		Sort:       string(criterion),
		Count:      len(snap.Offers),
		Offers:     snap.Offers,
	}
}

func parseSearchParams(query url.Values) (entity.SearchParams, error) {
	get := query.Get

	params := entity.SearchParams{
		Origin:        get("origin"),
		Destination:   get("destination"),
		DepartureDate: get("date"),
		ReturnDate:    get("returnDate"),
		Currency:      get("currency"),
		TravelClass:   get("cabin"),
		Adults:        1,
	}

	if v := get("adults"); v != "" {
		adults, err := strconv.Atoi(v)
		if err != nil {
			return params, &entity.ValidationError{Field: "adults", Message: "must be an integer"}
		}
		params.Adults = adults
	}
	if v := get("nonStop"); v != "" {
		nonStop, err := strconv.ParseBool(v)
		if err != nil {
			return params, &entity.ValidationError{Field: "nonStop", Message: "must be true or false"}
		}
		params.NonStop = nonStop
	}
	if v := get("max"); v != "" {
		max, err := strconv.Atoi(v)
		if err != nil {
			return params, &entity.ValidationError{Field: "max", Message: "must be an integer"}
		}
		params.Max = max
	}

	return params, nil
}

func parseWait(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0, &entity.ValidationError{Field: "wait", Message: "must be a non-negative number of seconds"}
	}
	wait := time.Duration(seconds) * time.Second
	if wait > MaxWait {
		wait = MaxWait
	}
	return wait, nil
}

func (h *Handler) respondWithError(w http.ResponseWriter, err error) {
	var validationErr *entity.ValidationError
	var searchErr *usecase.SearchError

	switch {
	case errors.As(err, &validationErr):
		respondWithJSON(w, http.StatusBadRequest, map[string]string{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	case errors.As(err, &searchErr):
		h.logger.Warn("Upstream search failed", "op", searchErr.Op, "error", searchErr.Err)
		respondWithJSON(w, http.StatusBadGateway, map[string]string{"error": searchErr.UserMessage()})
	case errors.Is(err, usecase.ErrSessionNotFound), errors.Is(err, usecase.ErrOfferNotFound):
		respondWithJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("Request failed", "error", err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
