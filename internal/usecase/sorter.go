package usecase

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"flightsearch-service/internal/domain/entity"
)

// ParseSortCriterion accepts "", "none", "price" and "duration" (case-insensitive)
func ParseSortCriterion(value string) (entity.SortCriterion, error) {
	switch entity.SortCriterion(strings.ToLower(strings.TrimSpace(value))) {
	case "", entity.SortNone:
		return entity.SortNone, nil
	case entity.SortPrice:
		return entity.SortPrice, nil
	case entity.SortDuration:
		return entity.SortDuration, nil
	}
	return entity.SortNone, fmt.Errorf("unknown sort criterion %q", value)
}

// SortOffers returns a new ordering of offers. The input slice is never reordered.
// Price sorts by total ascending, duration by first-itinerary minutes ascending;
// ties keep their input order.
func SortOffers(offers []entity.OfferView, criterion entity.SortCriterion) []entity.OfferView {
	sorted := slices.Clone(offers)

	switch criterion {
	case entity.SortPrice:
		slices.SortStableFunc(sorted, func(a, b entity.OfferView) int {
			return a.TotalAmount.Cmp(b.TotalAmount)
		})
	case entity.SortDuration:
		slices.SortStableFunc(sorted, func(a, b entity.OfferView) int {
			return cmp.Compare(a.DurationMinutes, b.DurationMinutes)
		})
	}

	return sorted
}
