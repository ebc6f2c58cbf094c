package render

import (
	"bytes"
	"strings"
	"testing"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOffer() entity.OfferView {
	return entity.OfferView{
		Index: 0,
		ID:    "1",
		Itineraries: []entity.ItineraryView{{
			Origin:        "JFK",
			Destination:   "LHR",
			DepartureTime: "08:00",
			ArrivalTime:   "01:00",
			Duration:      "12h 0m",
			Stops:         1,
			StopLabel:     "1 stop",
			Layovers:      []entity.Layover{{Airport: "ORD", Duration: "1h 30m"}},
			Segments: []entity.SegmentRow{
				{
					SegmentID: "1", DepartureAirport: "JFK", DepartureDateTime: "2026-11-01 08:00",
					ArrivalAirport: "ORD", ArrivalDateTime: "2026-11-01 10:00",
					CarrierCode: "BA", CarrierName: "BRITISH AIRWAYS", FlightNumber: "1500",
					Codeshare: true, OperatingCarrierCode: "AA", OperatingCarrierName: "AMERICAN AIRLINES",
					AircraftCode: "738", Duration: "3h 0m",
					Fares: []entity.FareInfo{{TravelerIndex: 1, Available: true, Cabin: "ECONOMY", Class: "O", Amenities: []string{"CHECKED BAG (chargeable)"}}},
				},
				{
					SegmentID: "2", DepartureAirport: "ORD", DepartureDateTime: "2026-11-01 11:30",
					ArrivalAirport: "LHR", ArrivalDateTime: "2026-11-02 01:00",
					CarrierCode: "BA", CarrierName: "BRITISH AIRWAYS", FlightNumber: "296",
					AircraftCode: "789", Duration: "7h 30m",
					Fares: []entity.FareInfo{{TravelerIndex: 1, Cabin: utils.NOT_AVAILABLE, Class: utils.NOT_AVAILABLE, Amenities: []string{}}},
				},
			},
		}},
		Price: entity.PriceBreakdown{
			Currency: "USD", Base: "400.00 USD", Fees: []string{"25.00 USD"}, Total: "450.00 USD", GrandTotal: "450.00 USD",
		},
		Travelers: []entity.TravelerTotal{{Index: 1, Total: "450.00 USD"}},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []entity.OfferView{sampleOffer()}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "offer,offer_id,itinerary,segment_id,from,departure,to,arrival,carrier,carrier_name,flight,operated_by,aircraft,duration,cabin,class,total", lines[0])
	assert.Equal(t, "1,1,1,1,JFK,2026-11-01 08:00,ORD,2026-11-01 10:00,BA,BRITISH AIRWAYS,BA1500,AMERICAN AIRLINES,738,3h 0m,ECONOMY,O,450.00 USD", lines[1])
	assert.Equal(t, "1,1,1,2,ORD,2026-11-01 11:30,LHR,2026-11-02 01:00,BA,BRITISH AIRWAYS,BA296,,789,7h 30m,N/A,N/A,450.00 USD", lines[2])
}

func TestWriteCSV_NoOffers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.True(t, strings.HasPrefix(buf.String(), "offer,offer_id,"))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, []entity.OfferView{sampleOffer(), {Index: 1, Price: entity.PriceBreakdown{Total: utils.NOT_AVAILABLE}}}))

	out := buf.String()
	assert.Contains(t, out, "PRICE")
	assert.Contains(t, out, "450.00 USD")
	assert.Contains(t, out, "JFK-ORD-LHR")
	assert.Contains(t, out, "1 stop")
	assert.Contains(t, out, "BRITISH AIRWAYS")
	assert.Contains(t, out, "Nonstop")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestWriteDetails(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDetails(&buf, sampleOffer()))

	out := buf.String()
	assert.Contains(t, out, "Itinerary 1: JFK-ORD-LHR (12h 0m, 1 stop)")
	assert.Contains(t, out, "Operated by AMERICAN AIRLINES")
	assert.Contains(t, out, "ECONOMY (O) CHECKED BAG (chargeable)")
	assert.Contains(t, out, "Fare details not available")
	assert.Contains(t, out, "Layover ORD")
	assert.Contains(t, out, "25.00 USD")
}

func TestWriteLocations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLocations(&buf, []entity.Location{
		{Name: "LONDON", IataCode: "LON", SubType: entity.SubTypeCity},
		{Name: "HEATHROW", IataCode: "LHR", SubType: entity.SubTypeAirport},
	}))
	assert.Equal(t, "LONDON (LON) [City]\nHEATHROW (LHR)\n", buf.String())
}
