package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SortCriterion orders a results list
type SortCriterion string

const (
	SortNone     SortCriterion = "none"
	SortPrice    SortCriterion = "price"
	SortDuration SortCriterion = "duration"
)

// OfferView is the render-ready form of a FlightOffer
type OfferView struct {
	Index       int             `json:"index"`
	ID          string          `json:"id,omitempty"`
	Itineraries []ItineraryView `json:"itineraries"`
	Price       PriceBreakdown  `json:"price"`
	Travelers   []TravelerTotal `json:"travelers"`

	// Sort keys, derived once during normalization
	TotalAmount     decimal.Decimal `json:"-"`
	DurationMinutes int             `json:"-"`
}

// Rows returns every segment row across all itineraries, in flight order
func (o OfferView) Rows() []SegmentRow {
	var rows []SegmentRow
	for _, itin := range o.Itineraries {
		rows = append(rows, itin.Segments...)
	}
	return rows
}

// Summary is the results-list line for the first itinerary
func (o OfferView) Summary() ItineraryView {
	if len(o.Itineraries) == 0 {
		return ItineraryView{StopLabel: NewStopLabel(0)}
	}
	return o.Itineraries[0]
}

// ItineraryView is one directional trip of an offer
type ItineraryView struct {
	Index           int          `json:"index"`
	Origin          string       `json:"origin"`
	Destination     string       `json:"destination"`
	DepartureTime   string       `json:"departureTime"`
	ArrivalTime     string       `json:"arrivalTime"`
	Duration        string       `json:"duration"`
	DurationMinutes int          `json:"durationMinutes"`
	Stops           int          `json:"stops"`
	StopLabel       string       `json:"stopLabel"`
	Segments        []SegmentRow `json:"segments"`
	Layovers        []Layover    `json:"layovers,omitempty"`
}

// NewStopLabel renders "Nonstop", "1 stop" or "n stops"
func NewStopLabel(stops int) string {
	switch {
	case stops <= 0:
		return "Nonstop"
	case stops == 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", stops)
	}
}

// Layover is the connection wait before a segment
type Layover struct {
	Airport  string `json:"airport"`
	Duration string `json:"duration"`
}

// SegmentRow is the display row for one segment
type SegmentRow struct {
	SegmentID            string     `json:"segmentId,omitempty"`
	DepartureAirport     string     `json:"departureAirport"`
	DepartureTerminal    string     `json:"departureTerminal,omitempty"`
	DepartureTime        string     `json:"departureTime"`
	DepartureDateTime    string     `json:"departureDateTime"`
	ArrivalAirport       string     `json:"arrivalAirport"`
	ArrivalTerminal      string     `json:"arrivalTerminal,omitempty"`
	ArrivalTime          string     `json:"arrivalTime"`
	ArrivalDateTime      string     `json:"arrivalDateTime"`
	CarrierCode          string     `json:"carrierCode"`
	CarrierName          string     `json:"carrierName"`
	FlightNumber         string     `json:"flightNumber"`
	Codeshare            bool       `json:"codeshare"`
	OperatingCarrierCode string     `json:"operatingCarrierCode,omitempty"`
	OperatingCarrierName string     `json:"operatingCarrierName,omitempty"`
	AircraftCode         string     `json:"aircraftCode"`
	Duration             string     `json:"duration"`
	Fares                []FareInfo `json:"fares"`
}

// OperatedBy renders the codeshare note, empty for non-codeshare segments
func (r SegmentRow) OperatedBy() string {
	if !r.Codeshare {
		return ""
	}
	return "Operated by " + r.OperatingCarrierName
}

// FareInfo is one traveler's fare on a segment
type FareInfo struct {
	TravelerIndex int      `json:"travelerIndex"`
	TravelerID    string   `json:"travelerId,omitempty"`
	Available     bool     `json:"available"`
	Fallback      bool     `json:"fallback,omitempty"`
	Cabin         string   `json:"cabin"`
	Class         string   `json:"class"`
	FareBasis     string   `json:"fareBasis,omitempty"`
	Amenities     []string `json:"amenities"`
}

// PriceBreakdown lists every amount tagged with the offer currency
type PriceBreakdown struct {
	Currency   string   `json:"currency"`
	Base       string   `json:"base"`
	Fees       []string `json:"fees"`
	Total      string   `json:"total"`
	GrandTotal string   `json:"grandTotal"`
}

// TravelerTotal is the total for one traveler
type TravelerTotal struct {
	Index        int    `json:"index"`
	TravelerID   string `json:"travelerId,omitempty"`
	TravelerType string `json:"travelerType,omitempty"`
	Total        string `json:"total"`
}
