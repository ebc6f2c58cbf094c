package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/pkg/utils"

	"github.com/jszwec/csvutil"
)

// SegmentRecord is one CSV line: a segment together with its offer
type SegmentRecord struct {
	Offer       int    `csv:"offer"`
	OfferID     string `csv:"offer_id"`
	Itinerary   int    `csv:"itinerary"`
	SegmentID   string `csv:"segment_id"`
	From        string `csv:"from"`
	Departure   string `csv:"departure"`
	To          string `csv:"to"`
	Arrival     string `csv:"arrival"`
	Carrier     string `csv:"carrier"`
	CarrierName string `csv:"carrier_name"`
	Flight      string `csv:"flight"`
	OperatedBy  string `csv:"operated_by,omitempty"`
	Aircraft    string `csv:"aircraft"`
	Duration    string `csv:"duration"`
	Cabin       string `csv:"cabin"`
	Class       string `csv:"class"`
	Total       string `csv:"total"`
}

// Records flattens offers into CSV records in list order
func Records(offers []entity.OfferView) []SegmentRecord {
	var records []SegmentRecord
	for _, offer := range offers {
		for _, itin := range offer.Itineraries {
			for _, row := range itin.Segments {
				record := SegmentRecord{
					Offer:       offer.Index + 1,
					OfferID:     offer.ID,
					Itinerary:   itin.Index + 1,
					SegmentID:   row.SegmentID,
					From:        row.DepartureAirport,
					Departure:   row.DepartureDateTime,
					To:          row.ArrivalAirport,
					Arrival:     row.ArrivalDateTime,
					Carrier:     row.CarrierCode,
					CarrierName: row.CarrierName,
					Flight:      row.CarrierCode + row.FlightNumber,
					Aircraft:    row.AircraftCode,
					Duration:    row.Duration,
					Cabin:       utils.NOT_AVAILABLE,
					Class:       utils.NOT_AVAILABLE,
					Total:       offer.Price.Total,
				}
				if row.Codeshare {
					record.OperatedBy = row.OperatingCarrierName
				}
				// first traveler's fare stands for the row
				if len(row.Fares) > 0 {
					record.Cabin = row.Fares[0].Cabin
					record.Class = row.Fares[0].Class
				}
				records = append(records, record)
			}
		}
	}
	return records
}

// WriteCSV writes one line per segment with a header
func WriteCSV(w io.Writer, offers []entity.OfferView) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	records := Records(offers)
	if len(records) == 0 {
		if err := enc.EncodeHeader(SegmentRecord{}); err != nil {
			return fmt.Errorf("failed to write csv header: %w", err)
		}
	} else if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

// WriteTable writes the results list, one line per offer
func WriteTable(w io.Writer, offers []entity.OfferView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPRICE\tDURATION\tSTOPS\tDEPART\tARRIVE\tROUTE\tCARRIERS")

	for _, offer := range offers {
		summary := offer.Summary()
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			offer.Index+1,
			offer.Price.Total,
			utils.OrNA(summary.Duration),
			summary.StopLabel,
			utils.OrNA(summary.DepartureTime),
			utils.OrNA(summary.ArrivalTime),
			route(summary),
			strings.Join(carrierNames(summary), ", "),
		)
	}
	return tw.Flush()
}

// WriteDetails writes every segment, fare and price line of one offer
func WriteDetails(w io.Writer, offer entity.OfferView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, itin := range offer.Itineraries {
		fmt.Fprintf(tw, "Itinerary %d: %s (%s, %s)\n", itin.Index+1, route(itin), itin.Duration, itin.StopLabel)
		for i, row := range itin.Segments {
			fmt.Fprintf(tw, "  %s %s\t%s %s\t-> %s %s\t%s\t%s\n",
				row.CarrierName, row.FlightNumber,
				row.DepartureAirport, row.DepartureDateTime,
				row.ArrivalAirport, row.ArrivalDateTime,
				row.AircraftCode, row.Duration)
			if note := row.OperatedBy(); note != "" {
				fmt.Fprintf(tw, "    %s\n", note)
			}
			for _, fare := range row.Fares {
				fmt.Fprintf(tw, "    Traveler %d\t%s\n", fare.TravelerIndex, fareLine(fare))
			}
			if i < len(itin.Layovers) {
				l := itin.Layovers[i]
				fmt.Fprintf(tw, "  Layover %s\t%s\n", l.Airport, l.Duration)
			}
		}
	}

	// price lines align among themselves
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(tw, "Base\t%s\n", offer.Price.Base)
	for _, fee := range offer.Price.Fees {
		fmt.Fprintf(tw, "Fee\t%s\n", fee)
	}
	fmt.Fprintf(tw, "Total\t%s\n", offer.Price.Total)
	for _, traveler := range offer.Travelers {
		fmt.Fprintf(tw, "Traveler %d\t%s\n", traveler.Index, traveler.Total)
	}
	return tw.Flush()
}

// WriteLocations writes autocomplete labels, one per line
func WriteLocations(w io.Writer, locations []entity.Location) error {
	for _, location := range locations {
		if _, err := fmt.Fprintln(w, location.Label()); err != nil {
			return err
		}
	}
	return nil
}

func fareLine(fare entity.FareInfo) string {
	if !fare.Available {
		return "Fare details not available"
	}
	line := fare.Cabin + " (" + fare.Class + ")"
	if len(fare.Amenities) > 0 {
		line += " " + strings.Join(fare.Amenities, "; ")
	}
	return line
}

func route(itin entity.ItineraryView) string {
	if len(itin.Segments) == 0 {
		return utils.NOT_AVAILABLE
	}
	stops := []string{itin.Origin}
	for _, l := range itin.Layovers {
		stops = append(stops, l.Airport)
	}
	stops = append(stops, itin.Destination)
	return strings.Join(stops, "-")
}

func carrierNames(itin entity.ItineraryView) []string {
	seen := make(map[string]bool)
	var names []string
	for _, row := range itin.Segments {
		if row.CarrierName != "" && !seen[row.CarrierName] {
			seen[row.CarrierName] = true
			names = append(names, row.CarrierName)
		}
	}
	return names
}
