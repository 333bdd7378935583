package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestCompute_ThreeDayRental(t *testing.T) {
	quote, err := Compute(2000, day(0), day(3))

	require.NoError(t, err)
	assert.Equal(t, 3, quote.Days)
	assert.Equal(t, 2000.0, quote.DailyRate)
	assert.Equal(t, 6000.0, quote.Subtotal)
	assert.Equal(t, 600.0, quote.Tax)
	assert.Equal(t, 6600.0, quote.Total)
}

func TestCompute_SameDayIsZeroRental(t *testing.T) {
	quote, err := Compute(4500, day(2), day(2))

	require.NoError(t, err)
	assert.Equal(t, 0, quote.Days)
	assert.Equal(t, 0.0, quote.Subtotal)
	assert.Equal(t, 0.0, quote.Tax)
	assert.Equal(t, 0.0, quote.Total)
}

func TestCompute_ReturnBeforePickup(t *testing.T) {
	_, err := Compute(2000, day(5), day(3))

	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCompute_UnsetDatesYieldZeroQuote(t *testing.T) {
	cases := []struct {
		name   string
		pickup time.Time
		ret    time.Time
	}{
		{"no pickup", time.Time{}, day(3)},
		{"no return", day(0), time.Time{}},
		{"neither", time.Time{}, time.Time{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			quote, err := Compute(3000, tc.pickup, tc.ret)

			require.NoError(t, err)
			assert.Equal(t, 0, quote.Days)
			assert.Equal(t, 0.0, quote.Total)
		})
	}
}

func TestCompute_PartialDayBillsAsFullDay(t *testing.T) {
	ret := day(2).Add(90 * time.Minute)

	quote, err := Compute(1000, day(0), ret)

	require.NoError(t, err)
	assert.Equal(t, 3, quote.Days)
	assert.Equal(t, 3000.0, quote.Subtotal)
}

func TestCompute_TotalIsSubtotalPlusTax(t *testing.T) {
	quote, err := Compute(3333, day(0), day(7))

	require.NoError(t, err)
	assert.Equal(t, quote.Subtotal+quote.Tax, quote.Total)
	assert.Equal(t, quote.Subtotal*TaxRate, quote.Tax)
}
