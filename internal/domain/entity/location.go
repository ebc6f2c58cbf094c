package entity

// Location sub types
const (
	SubTypeAirport = "AIRPORT"
	SubTypeCity    = "CITY"
)

// Location is an airport or city returned by the location search
type Location struct {
	ID       string           `json:"id" bson:"id"`
	Name     string           `json:"name" bson:"name"`
	IataCode string           `json:"iataCode" bson:"iataCode"`
	SubType  string           `json:"subType" bson:"subType"`
	Address  *LocationAddress `json:"address,omitempty" bson:"address,omitempty"`
}

// LocationAddress is the city/country part of a location
type LocationAddress struct {
	CityName    string `json:"cityName,omitempty" bson:"cityName,omitempty"`
	CountryCode string `json:"countryCode,omitempty" bson:"countryCode,omitempty"`
}

// IsCity reports whether the entry covers a whole city rather than one airport
func (l Location) IsCity() bool {
	return l.SubType == SubTypeCity
}

// Label renders the autocomplete label, e.g. "HEATHROW (LHR)" or "LONDON (LON) [City]"
func (l Location) Label() string {
	label := l.Name + " (" + l.IataCode + ")"
	if l.IsCity() {
		label += " [City]"
	}
	return label
}
