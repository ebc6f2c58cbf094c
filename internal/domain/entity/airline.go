package entity

import (
	"strings"
	"time"
)

// Airline represents an airline entity
type Airline struct {
	ID           uint      `json:"-"`
	Code         string    `json:"iataCode,omitempty"`
	IcaoCode     string    `json:"icaoCode,omitempty"`
	BusinessName string    `json:"businessName,omitempty"`
	CommonName   string    `json:"commonName,omitempty"`
	Name         string    `json:"name,omitempty"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// DisplayName returns the best available name: business name, then common name, then name.
// Empty when none is set.
func (a Airline) DisplayName() string {
	for _, candidate := range []string{a.BusinessName, a.CommonName, a.Name} {
		if name := strings.TrimSpace(candidate); name != "" {
			return name
		}
	}
	return ""
}
