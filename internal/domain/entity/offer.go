package entity

// FlightOffer is one priced flight option as returned by the flight-offers search.
// Every nested structure is optional; absent collections decode as nil.
type FlightOffer struct {
	ID               string            `json:"id,omitempty"`
	Source           string            `json:"source,omitempty"`
	Itineraries      []Itinerary       `json:"itineraries,omitempty"`
	Price            *Price            `json:"price,omitempty"`
	TravelerPricings []TravelerPricing `json:"travelerPricings,omitempty"`
	ValidatingCodes  []string          `json:"validatingAirlineCodes,omitempty"`
}

// Itinerary is one directional trip
type Itinerary struct {
	Duration string    `json:"duration,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

// Segment is a single flight leg
type Segment struct {
	ID            string            `json:"id,omitempty"`
	Departure     *FlightEndpoint   `json:"departure,omitempty"`
	Arrival       *FlightEndpoint   `json:"arrival,omitempty"`
	CarrierCode   string            `json:"carrierCode,omitempty"`
	Number        string            `json:"number,omitempty"`
	Aircraft      *Aircraft         `json:"aircraft,omitempty"`
	Operating     *OperatingCarrier `json:"operating,omitempty"`
	Duration      string            `json:"duration,omitempty"`
	NumberOfStops *int              `json:"numberOfStops,omitempty"`
}

// FlightEndpoint is a departure or arrival point
type FlightEndpoint struct {
	IataCode string `json:"iataCode,omitempty"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at,omitempty"`
}

// Aircraft identifies the equipment flown
type Aircraft struct {
	Code string `json:"code,omitempty"`
}

// OperatingCarrier is present on codeshare segments
type OperatingCarrier struct {
	CarrierCode string `json:"carrierCode,omitempty"`
}

// Price is the offer-level price. All amounts are decimal strings in Currency.
type Price struct {
	Currency   string `json:"currency,omitempty"`
	Base       string `json:"base,omitempty"`
	Fees       []Fee  `json:"fees,omitempty"`
	Total      string `json:"total,omitempty"`
	GrandTotal string `json:"grandTotal,omitempty"`
}

// Fee is one fee line of a price
type Fee struct {
	Amount string `json:"amount,omitempty"`
	Type   string `json:"type,omitempty"`
}

// TravelerPricing is the price and fares for one traveler
type TravelerPricing struct {
	TravelerID           string       `json:"travelerId,omitempty"`
	TravelerType         string       `json:"travelerType,omitempty"`
	FareOption           string       `json:"fareOption,omitempty"`
	Price                *Price       `json:"price,omitempty"`
	FareDetailsBySegment []FareDetail `json:"fareDetailsBySegment,omitempty"`
}

// FareDetail describes the fare of one traveler on one segment
type FareDetail struct {
	SegmentID string    `json:"segmentId,omitempty"`
	Cabin     string    `json:"cabin,omitempty"`
	FareBasis string    `json:"fareBasis,omitempty"`
	Class     string    `json:"class,omitempty"`
	Amenities []Amenity `json:"amenities,omitempty"`
}

// Amenity is a fare inclusion. Both field spellings seen upstream are accepted.
type Amenity struct {
	Description  string `json:"description,omitempty"`
	Name         string `json:"name,omitempty"`
	AmenityType  string `json:"amenityType,omitempty"`
	IsChargeable *bool  `json:"isChargeable,omitempty"`
	Chargeable   *bool  `json:"chargeable,omitempty"`
}

// Charged reports whether the amenity costs extra
func (a Amenity) Charged() bool {
	if a.IsChargeable != nil {
		return *a.IsChargeable
	}
	return a.Chargeable != nil && *a.Chargeable
}

// CarrierCodes returns the distinct marketing and operating carrier codes of the offer in first-seen order
func (o FlightOffer) CarrierCodes() []string {
	seen := make(map[string]bool)
	var codes []string
	add := func(code string) {
		if code == "" || seen[code] {
			return
		}
		seen[code] = true
		codes = append(codes, code)
	}
	for _, itin := range o.Itineraries {
		for _, seg := range itin.Segments {
			add(seg.CarrierCode)
			if seg.Operating != nil {
				add(seg.Operating.CarrierCode)
			}
		}
	}
	return codes
}
