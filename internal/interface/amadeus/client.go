package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/internal/domain/repository"
	"flightsearch-service/pkg/logger"
)

const (
	flightOffersPath = "/v2/shopping/flight-offers"
	locationsPath    = "/v1/reference-data/locations"
	airlinesPath     = "/v1/reference-data/airlines"

	locationPageLimit = 10
)

// Client calls the Amadeus self-service APIs. The http.Client is expected to
// attach the bearer token, see oauth.AmadeusOAuth.HTTPClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

var (
	_ repository.FlightOfferSearcher = (*Client)(nil)
	_ repository.LocationSearcher    = (*Client)(nil)
	_ repository.AirlineLookup       = (*Client)(nil)
)

// NewClient creates a new Amadeus client
func NewClient(baseURL string, httpClient *http.Client, logger logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// APIError is a non-200 answer from Amadeus
type APIError struct {
	StatusCode int
	Details    []ErrorDetail
	Body       string
}

// ErrorDetail is one entry of an Amadeus errors array
type ErrorDetail struct {
	Status int    `json:"status"`
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		d := e.Details[0]
		msg := d.Title
		if d.Detail != "" {
			msg += ": " + d.Detail
		}
		return fmt.Sprintf("amadeus: HTTP %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("amadeus: HTTP %d: %s", e.StatusCode, e.Body)
}

type dataResponse[T any] struct {
	Data []T `json:"data"`
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values, dest any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("amadeus: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.amadeus+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("amadeus: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		var parsed struct {
			Errors []ErrorDetail `json:"errors"`
		}
		if json.Unmarshal(body, &parsed) == nil {
			apiErr.Details = parsed.Errors
		}
		c.logger.Warn("Amadeus request failed", "path", path, "status", resp.StatusCode)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("amadeus: decoding response: %w", err)
	}
	return nil
}

// SearchFlightOffers runs a flight offers search
func (c *Client) SearchFlightOffers(ctx context.Context, params entity.SearchParams) ([]entity.FlightOffer, error) {
	query := url.Values{
		"originLocationCode":      {params.Origin},
		"destinationLocationCode": {params.Destination},
		"departureDate":           {params.DepartureDate},
		"adults":                  {strconv.Itoa(params.Adults)},
		"nonStop":                 {strconv.FormatBool(params.NonStop)},
	}
	if params.Currency != "" {
		query.Set("currencyCode", params.Currency)
	}
	if params.ReturnDate != "" {
		query.Set("returnDate", params.ReturnDate)
	}
	if params.TravelClass != "" {
		query.Set("travelClass", params.TravelClass)
	}
	if params.Max > 0 {
		query.Set("max", strconv.Itoa(params.Max))
	}

	var raw dataResponse[entity.FlightOffer]
	if err := c.doRequest(ctx, flightOffersPath, query, &raw); err != nil {
		return nil, err
	}
	c.logger.Debug("Flight offers received", "count", len(raw.Data))
	return raw.Data, nil
}

// SearchLocations returns airports and cities matching keyword
func (c *Client) SearchLocations(ctx context.Context, keyword string) ([]entity.Location, error) {
	query := url.Values{
		"subType":     {entity.SubTypeAirport + "," + entity.SubTypeCity},
		"keyword":     {keyword},
		"page[limit]": {strconv.Itoa(locationPageLimit)},
	}

	var raw dataResponse[entity.Location]
	if err := c.doRequest(ctx, locationsPath, query, &raw); err != nil {
		return nil, err
	}
	return raw.Data, nil
}

// LookupAirline returns the reference data for one carrier code
func (c *Client) LookupAirline(ctx context.Context, code string) ([]entity.Airline, error) {
	var raw dataResponse[entity.Airline]
	if err := c.doRequest(ctx, airlinesPath, url.Values{"airlineCodes": {code}}, &raw); err != nil {
		return nil, err
	}
	return raw.Data, nil
}
