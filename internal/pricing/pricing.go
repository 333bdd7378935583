// Package pricing computes itemized rental quotes from a daily rate and a
// pickup/return date pair.
package pricing

import (
	"errors"
	"math"
	"time"
)

// TaxRate is the flat tax applied to every rental subtotal.
const TaxRate = 0.10

// ErrInvalidDateRange is returned when the return date precedes the pickup
// date.
var ErrInvalidDateRange = errors.New("return date is before pickup date")

// Quote is the full price breakdown for a rental period. Amounts are not
// rounded here; presentation rounding is the caller's concern.
type Quote struct {
	PickupDate time.Time `json:"pickupDate"`
	ReturnDate time.Time `json:"returnDate"`
	Days       int       `json:"days"`
	DailyRate  float64   `json:"dailyRate"`
	Subtotal   float64   `json:"subtotal"`
	Tax        float64   `json:"tax"`
	Total      float64   `json:"total"`
}

// Compute builds a quote for renting at dailyRate between pickup and ret.
// If either date is unset it returns a zero quote so callers can render an
// empty summary while the user is still picking dates. A return date before
// the pickup date yields ErrInvalidDateRange. The day count is the ceiling
// of the elapsed time divided by 24 hours, so any partial day is billed as
// a full one; pickup == return counts as zero days.
func Compute(dailyRate float64, pickup, ret time.Time) (Quote, error) {
	if pickup.IsZero() || ret.IsZero() {
		return Quote{DailyRate: dailyRate}, nil
	}

	if ret.Before(pickup) {
		return Quote{}, ErrInvalidDateRange
	}

	days := int(math.Ceil(float64(ret.Sub(pickup)) / float64(24*time.Hour)))

	subtotal := float64(days) * dailyRate
	tax := subtotal * TaxRate

	return Quote{
		PickupDate: pickup,
		ReturnDate: ret,
		Days:       days,
		DailyRate:  dailyRate,
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      subtotal + tax,
	}, nil
}
