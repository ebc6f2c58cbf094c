package usecase

import (
	"strings"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/pkg/utils"

	"github.com/shopspring/decimal"
)

const chargeableSuffix = " (chargeable)"

// NormalizeOffer flattens a raw offer into its render-ready view.
// It never fails: absent collections are empty and absent scalars render as N/A.
func NormalizeOffer(index int, offer entity.FlightOffer) entity.OfferView {
	currency := offerCurrency(offer)

	view := entity.OfferView{
		Index:       index,
		ID:          offer.ID,
		Itineraries: make([]entity.ItineraryView, 0, len(offer.Itineraries)),
		Price:       priceBreakdown(offer.Price, currency),
		Travelers:   travelerTotals(offer.TravelerPricings, currency),
	}

	for i, itin := range offer.Itineraries {
		view.Itineraries = append(view.Itineraries, normalizeItinerary(i, itin, offer.TravelerPricings))
	}

	if offer.Price != nil {
		view.TotalAmount = parseAmount(offer.Price.Total)
	}
	if len(view.Itineraries) > 0 {
		view.DurationMinutes = view.Itineraries[0].DurationMinutes
	}

	return view
}

// NormalizeOffers normalizes a whole search response, keeping input order
func NormalizeOffers(offers []entity.FlightOffer) []entity.OfferView {
	views := make([]entity.OfferView, 0, len(offers))
	for i, offer := range offers {
		views = append(views, NormalizeOffer(i, offer))
	}
	return views
}

func normalizeItinerary(index int, itin entity.Itinerary, pricings []entity.TravelerPricing) entity.ItineraryView {
	view := entity.ItineraryView{
		Index:    index,
		Duration: utils.OrNA(utils.FormatDuration(itin.Duration)),
		Segments: make([]entity.SegmentRow, 0, len(itin.Segments)),
	}
	if minutes, ok := utils.DurationMinutes(itin.Duration); ok {
		view.DurationMinutes = minutes
	}

	for _, seg := range itin.Segments {
		view.Segments = append(view.Segments, normalizeSegment(seg, pricings))
	}

	view.Stops = len(itin.Segments) - 1
	if view.Stops < 0 {
		view.Stops = 0
	}
	view.StopLabel = entity.NewStopLabel(view.Stops)

	if n := len(itin.Segments); n > 0 {
		first, last := itin.Segments[0], itin.Segments[n-1]
		view.Origin = utils.OrNA(endpointCode(first.Departure))
		view.DepartureTime = utils.FormatClockTime(endpointTime(first.Departure))
		view.Destination = utils.OrNA(endpointCode(last.Arrival))
		view.ArrivalTime = utils.FormatClockTime(endpointTime(last.Arrival))
	} else {
		view.Origin = utils.NOT_AVAILABLE
		view.Destination = utils.NOT_AVAILABLE
	}

	for i := 1; i < len(itin.Segments); i++ {
		view.Layovers = append(view.Layovers, layoverBetween(itin.Segments[i-1], itin.Segments[i]))
	}

	return view
}

func normalizeSegment(seg entity.Segment, pricings []entity.TravelerPricing) entity.SegmentRow {
	departureAt := endpointTime(seg.Departure)
	arrivalAt := endpointTime(seg.Arrival)

	row := entity.SegmentRow{
		SegmentID:         seg.ID,
		DepartureAirport:  utils.OrNA(endpointCode(seg.Departure)),
		DepartureTime:     utils.FormatClockTime(departureAt),
		DepartureDateTime: utils.FormatFullDateTime(departureAt),
		ArrivalAirport:    utils.OrNA(endpointCode(seg.Arrival)),
		ArrivalTime:       utils.FormatClockTime(arrivalAt),
		ArrivalDateTime:   utils.FormatFullDateTime(arrivalAt),
		CarrierCode:       seg.CarrierCode,
		CarrierName:       utils.OrNA(seg.CarrierCode),
		FlightNumber:      utils.OrNA(seg.Number),
		AircraftCode:      utils.NOT_AVAILABLE,
		Duration:          utils.OrNA(utils.FormatDuration(seg.Duration)),
		Fares:             make([]entity.FareInfo, 0, len(pricings)),
	}
	if seg.Departure != nil {
		row.DepartureTerminal = seg.Departure.Terminal
	}
	if seg.Arrival != nil {
		row.ArrivalTerminal = seg.Arrival.Terminal
	}
	if seg.Aircraft != nil {
		row.AircraftCode = utils.OrNA(seg.Aircraft.Code)
	}

	// A distinct operating carrier marks a codeshare
	if seg.Operating != nil && seg.Operating.CarrierCode != "" && seg.Operating.CarrierCode != seg.CarrierCode {
		row.Codeshare = true
		row.OperatingCarrierCode = seg.Operating.CarrierCode
		row.OperatingCarrierName = seg.Operating.CarrierCode
	}

	for i, tp := range pricings {
		row.Fares = append(row.Fares, matchFare(seg.ID, i, tp))
	}

	return row
}

// matchFare finds the traveler's fare for a segment by segment id.
// A traveler with exactly one fare detail uses it for every segment when no id matches.
func matchFare(segmentID string, travelerIndex int, tp entity.TravelerPricing) entity.FareInfo {
	info := entity.FareInfo{
		TravelerIndex: travelerIndex + 1,
		TravelerID:    tp.TravelerID,
	}

	details := tp.FareDetailsBySegment
	if segmentID != "" {
		for _, fd := range details {
			if fd.SegmentID == segmentID {
				return fillFare(info, fd, false)
			}
		}
	}
	if len(details) == 1 {
		return fillFare(info, details[0], true)
	}

	info.Cabin = utils.NOT_AVAILABLE
	info.Class = utils.NOT_AVAILABLE
	info.Amenities = []string{}
	return info
}

func fillFare(info entity.FareInfo, fd entity.FareDetail, fallback bool) entity.FareInfo {
	info.Available = true
	info.Fallback = fallback
	info.Cabin = utils.OrNA(fd.Cabin)
	info.Class = utils.OrNA(fd.Class)
	info.FareBasis = fd.FareBasis
	info.Amenities = amenityLabels(fd.Amenities)
	return info
}

// amenityLabels prefers the description over the name and drops amenities with neither
func amenityLabels(amenities []entity.Amenity) []string {
	labels := make([]string, 0, len(amenities))
	for _, a := range amenities {
		label := strings.TrimSpace(a.Description)
		if label == "" {
			label = strings.TrimSpace(a.Name)
		}
		if label == "" {
			continue
		}
		if a.Charged() {
			label += chargeableSuffix
		}
		labels = append(labels, label)
	}
	return labels
}

func priceBreakdown(price *entity.Price, currency string) entity.PriceBreakdown {
	breakdown := entity.PriceBreakdown{
		Currency:   utils.OrNA(currency),
		Base:       utils.NOT_AVAILABLE,
		Fees:       []string{},
		Total:      utils.NOT_AVAILABLE,
		GrandTotal: utils.NOT_AVAILABLE,
	}
	if price == nil {
		return breakdown
	}

	breakdown.Base = withCurrency(price.Base, currency)
	for _, fee := range price.Fees {
		breakdown.Fees = append(breakdown.Fees, withCurrency(fee.Amount, currency))
	}
	breakdown.Total = withCurrency(price.Total, currency)
	breakdown.GrandTotal = withCurrency(price.GrandTotal, currency)
	return breakdown
}

func travelerTotals(pricings []entity.TravelerPricing, currency string) []entity.TravelerTotal {
	totals := make([]entity.TravelerTotal, 0, len(pricings))
	for i, tp := range pricings {
		total := utils.NOT_AVAILABLE
		if tp.Price != nil {
			total = withCurrency(tp.Price.Total, currency)
		}
		totals = append(totals, entity.TravelerTotal{
			Index:        i + 1,
			TravelerID:   tp.TravelerID,
			TravelerType: tp.TravelerType,
			Total:        total,
		})
	}
	return totals
}

// offerCurrency is the single currency of an offer. Traveler prices are only consulted
// when the offer price carries none.
func offerCurrency(offer entity.FlightOffer) string {
	if offer.Price != nil && strings.TrimSpace(offer.Price.Currency) != "" {
		return strings.TrimSpace(offer.Price.Currency)
	}
	for _, tp := range offer.TravelerPricings {
		if tp.Price != nil && strings.TrimSpace(tp.Price.Currency) != "" {
			return strings.TrimSpace(tp.Price.Currency)
		}
	}
	return ""
}

func withCurrency(amount, currency string) string {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return utils.NOT_AVAILABLE
	}
	if currency == "" {
		return amount
	}
	return amount + " " + currency
}

// parseAmount parses a decimal amount; unparseable or absent amounts are zero
func parseAmount(amount string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func layoverBetween(prev, next entity.Segment) entity.Layover {
	layover := entity.Layover{
		Airport:  utils.OrNA(endpointCode(next.Departure)),
		Duration: utils.NOT_AVAILABLE,
	}
	arrived, okArr := utils.ParseTimestamp(endpointTime(prev.Arrival))
	departs, okDep := utils.ParseTimestamp(endpointTime(next.Departure))
	if okArr && okDep {
		layover.Duration = utils.FormatLayover(departs.Sub(arrived))
	}
	return layover
}

func endpointCode(ep *entity.FlightEndpoint) string {
	if ep == nil {
		return ""
	}
	return ep.IataCode
}

func endpointTime(ep *entity.FlightEndpoint) string {
	if ep == nil {
		return ""
	}
	return ep.At
}
