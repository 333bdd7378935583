// Package catalog implements the storefront's catalog query engine: a pure
// filter/sort pipeline over in-memory car records. It never touches storage
// or transport; callers hand it a slice of cars and get a new slice back.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"rental-backend/internal/models"
)

// Wildcard matches every category or type.
const Wildcard = "all"

// SortKey selects the ordering of a query result.
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortName      SortKey = "name"
)

// FilterCriteria describes one catalog query. A zero Search matches
// everything, as do Wildcard category/type selectors. PriceMax is an
// inclusive ceiling; negative values are clamped to zero.
type FilterCriteria struct {
	Search   string  `json:"search"`
	Category string  `json:"category"`
	Type     string  `json:"type"`
	PriceMax float64 `json:"priceMax"`
}

var nameCollator = collate.New(language.English, collate.Loose)

// Query returns the cars matching criteria, ordered by key. The input slice
// is never mutated; sorting happens on a fresh slice and is stable, so ties
// keep their original catalog order. An unknown key sorts as SortFeatured.
func Query(catalog []models.Car, criteria FilterCriteria, key SortKey) []models.Car {
	search := strings.ToLower(strings.TrimSpace(criteria.Search))
	priceMax := criteria.PriceMax
	if priceMax < 0 {
		priceMax = 0
	}

	result := make([]models.Car, 0, len(catalog))
	for _, car := range catalog {
		if search != "" && !strings.Contains(strings.ToLower(car.Name), search) {
			continue
		}
		if criteria.Category != Wildcard && !strings.EqualFold(car.Category, criteria.Category) {
			continue
		}
		if criteria.Type != Wildcard && car.Type != criteria.Type {
			continue
		}
		if car.Price > priceMax {
			continue
		}
		result = append(result, car)
	}

	switch key {
	case SortPriceLow:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price < result[j].Price
		})
	case SortPriceHigh:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price > result[j].Price
		})
	case SortRating:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Rating > result[j].Rating
		})
	case SortName:
		sort.SliceStable(result, func(i, j int) bool {
			return nameCollator.CompareString(result[i].Name, result[j].Name) < 0
		})
	default:
		// featured keeps catalog order
	}

	return result
}
