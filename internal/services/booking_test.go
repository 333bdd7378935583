package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/models"
)

func TestValidTransition(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.BookingStatusConfirmed, models.BookingStatusActive, true},
		{models.BookingStatusConfirmed, models.BookingStatusCancelled, true},
		{models.BookingStatusConfirmed, models.BookingStatusCompleted, false},
		{models.BookingStatusActive, models.BookingStatusCompleted, true},
		{models.BookingStatusActive, models.BookingStatusCancelled, false},
		{models.BookingStatusCompleted, models.BookingStatusActive, false},
		{models.BookingStatusCancelled, models.BookingStatusConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, validTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestParseBookingDate_DateOnly(t *testing.T) {
	parsed, err := parseBookingDate("2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), parsed)
}

func TestParseBookingDate_RFC3339(t *testing.T) {
	parsed, err := parseBookingDate("2026-08-28T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC), parsed)
}

func TestParseBookingDate_Invalid(t *testing.T) {
	_, err := parseBookingDate("28/08/2026")
	assert.Error(t, err)
}
