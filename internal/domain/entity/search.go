package entity

import (
	"fmt"
	"strings"
	"time"
)

// Travel classes accepted by the flight-offers search
var travelClasses = map[string]bool{
	"ECONOMY":         true,
	"PREMIUM_ECONOMY": true,
	"BUSINESS":        true,
	"FIRST":           true,
}

const searchDateLayout = "2006-01-02"

// SearchParams are the user-supplied flight search parameters
type SearchParams struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"date"`
	ReturnDate    string `json:"returnDate,omitempty"`
	Adults        int    `json:"adults"`
	Currency      string `json:"currency"`
	NonStop       bool   `json:"nonStop"`
	TravelClass   string `json:"travelClass,omitempty"`
	Max           int    `json:"max,omitempty"`
}

// ValidationError is a local check failure on search input. No request is issued for invalid input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Normalized trims and upper-cases codes and applies defaults
func (p SearchParams) Normalized(defaultCurrency string) SearchParams {
	p.Origin = strings.ToUpper(strings.TrimSpace(p.Origin))
	p.Destination = strings.ToUpper(strings.TrimSpace(p.Destination))
	p.DepartureDate = strings.TrimSpace(p.DepartureDate)
	p.ReturnDate = strings.TrimSpace(p.ReturnDate)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	p.TravelClass = strings.ToUpper(strings.TrimSpace(p.TravelClass))
	return p
}

// Validate checks the parameters against today's date in now's location
func (p SearchParams) Validate(now time.Time) error {
	if p.Origin == "" {
		return &ValidationError{Field: "origin", Message: "departure airport or city is required"}
	}
	if p.Destination == "" {
		return &ValidationError{Field: "destination", Message: "arrival airport or city is required"}
	}
	if p.DepartureDate == "" {
		return &ValidationError{Field: "date", Message: "departure date is required"}
	}

	departure, err := time.ParseInLocation(searchDateLayout, p.DepartureDate, now.Location())
	if err != nil {
		return &ValidationError{Field: "date", Message: "use YYYY-MM-DD"}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if departure.Before(today) {
		return &ValidationError{Field: "date", Message: "departure date must not be in the past"}
	}

	if p.ReturnDate != "" {
		ret, err := time.ParseInLocation(searchDateLayout, p.ReturnDate, now.Location())
		if err != nil {
			return &ValidationError{Field: "returnDate", Message: "use YYYY-MM-DD"}
		}
		if ret.Before(departure) {
			return &ValidationError{Field: "returnDate", Message: "return date must not be before departure date"}
		}
	}

	if p.Adults < 1 {
		return &ValidationError{Field: "adults", Message: "at least one adult is required"}
	}
	if p.Currency != "" && len(p.Currency) != 3 {
		return &ValidationError{Field: "currency", Message: "use a three-letter currency code"}
	}
	if p.TravelClass != "" && !travelClasses[p.TravelClass] {
		return &ValidationError{Field: "travelClass", Message: "unknown cabin " + p.TravelClass}
	}
	if p.Max < 0 {
		return &ValidationError{Field: "max", Message: "must not be negative"}
	}
	return nil
}
