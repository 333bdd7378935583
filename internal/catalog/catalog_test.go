package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/models"
)

func testCatalog() []models.Car {
	return []models.Car{
		{Name: "Honda Civic", Type: "Sedan", Category: models.CategoryEconomy, Price: 3000, Rating: 4.5},
		{Name: "Toyota Camry", Type: "Sedan", Category: models.CategoryStandard, Price: 5000, Rating: 4.7},
		{Name: "BMW 7 Series", Type: "Sedan", Category: models.CategoryLuxury, Price: 7000, Rating: 4.9},
	}
}

func matchAll() FilterCriteria {
	return FilterCriteria{
		Search:   "",
		Category: Wildcard,
		Type:     Wildcard,
		PriceMax: math.Inf(1),
	}
}

func TestQuery_Identity(t *testing.T) {
	cars := testCatalog()

	result := Query(cars, matchAll(), SortFeatured)

	assert.Equal(t, cars, result)
}

func TestQuery_Idempotent(t *testing.T) {
	cars := testCatalog()
	criteria := FilterCriteria{Search: "", Category: Wildcard, Type: "Sedan", PriceMax: 6000}

	once := Query(cars, criteria, SortPriceLow)
	twice := Query(once, criteria, SortPriceLow)

	assert.Equal(t, once, twice)
}

func TestQuery_DoesNotMutateInput(t *testing.T) {
	cars := testCatalog()
	original := testCatalog()

	Query(cars, matchAll(), SortPriceHigh)

	assert.Equal(t, original, cars)
}

func TestQuery_PriceCeiling(t *testing.T) {
	result := Query(testCatalog(), FilterCriteria{
		Category: Wildcard,
		Type:     Wildcard,
		PriceMax: 5000,
	}, SortFeatured)

	require.Len(t, result, 2)
	assert.Equal(t, "Honda Civic", result[0].Name)
	assert.Equal(t, "Toyota Camry", result[1].Name)
}

func TestQuery_NegativePriceCeilingClampsToZero(t *testing.T) {
	result := Query(testCatalog(), FilterCriteria{
		Category: Wildcard,
		Type:     Wildcard,
		PriceMax: -100,
	}, SortFeatured)

	assert.Empty(t, result)
}

func TestQuery_Search(t *testing.T) {
	t.Run("matches case-insensitive substring", func(t *testing.T) {
		criteria := matchAll()
		criteria.Search = "civic"

		result := Query(testCatalog(), criteria, SortFeatured)

		require.Len(t, result, 1)
		assert.Equal(t, "Honda Civic", result[0].Name)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		criteria := matchAll()
		criteria.Search = "  CAMRY  "

		result := Query(testCatalog(), criteria, SortFeatured)

		require.Len(t, result, 1)
		assert.Equal(t, "Toyota Camry", result[0].Name)
	})
}

func TestQuery_CategoryFilter(t *testing.T) {
	criteria := matchAll()
	criteria.Category = "luxury" // case-insensitive match

	result := Query(testCatalog(), criteria, SortFeatured)

	require.Len(t, result, 1)
	assert.Equal(t, "BMW 7 Series", result[0].Name)
}

func TestQuery_TypeFilter(t *testing.T) {
	cars := append(testCatalog(), models.Car{
		Name: "Tesla Model Y", Type: "SUV", Category: models.CategoryElectric, Price: 6500, Rating: 4.8,
	})

	criteria := matchAll()
	criteria.Type = "SUV"

	result := Query(cars, criteria, SortFeatured)

	require.Len(t, result, 1)
	assert.Equal(t, "Tesla Model Y", result[0].Name)
}

func TestQuery_PriceSortsAreReverses(t *testing.T) {
	cars := testCatalog()

	low := Query(cars, matchAll(), SortPriceLow)
	high := Query(cars, matchAll(), SortPriceHigh)

	require.Len(t, low, len(high))
	for i := range low {
		assert.Equal(t, low[i].Name, high[len(high)-1-i].Name)
	}
}

func TestQuery_RatingSortsDescending(t *testing.T) {
	result := Query(testCatalog(), matchAll(), SortRating)

	require.Len(t, result, 3)
	assert.Equal(t, "BMW 7 Series", result[0].Name)
	assert.Equal(t, "Toyota Camry", result[1].Name)
	assert.Equal(t, "Honda Civic", result[2].Name)
}

func TestQuery_NameSortsAscending(t *testing.T) {
	cars := []models.Car{
		{Name: "Zeta", Category: models.CategoryEconomy, Price: 100},
		{Name: "Alpha", Category: models.CategoryEconomy, Price: 200},
		{Name: "Mike", Category: models.CategoryEconomy, Price: 300},
	}

	result := Query(cars, matchAll(), SortName)

	require.Len(t, result, 3)
	assert.Equal(t, "Alpha", result[0].Name)
	assert.Equal(t, "Mike", result[1].Name)
	assert.Equal(t, "Zeta", result[2].Name)
}

func TestQuery_UnknownSortKeyKeepsCatalogOrder(t *testing.T) {
	cars := testCatalog()

	result := Query(cars, matchAll(), SortKey("bogus"))

	assert.Equal(t, cars, result)
}

func TestQuery_EmptyCatalog(t *testing.T) {
	result := Query(nil, matchAll(), SortPriceLow)

	assert.Empty(t, result)
}
