package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking lifecycle states.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusActive    = "active"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"user_id" json:"userId"`
	Car         BookingCar         `bson:"car" json:"car"`
	PickupDate  time.Time          `bson:"pickup_date" json:"pickupDate"`
	ReturnDate  time.Time          `bson:"return_date" json:"returnDate"`
	Locations   BookingLocations   `bson:"locations" json:"locations"`
	Customer    CustomerInfo       `bson:"customer" json:"customer"`
	Payment     PaymentSummary     `bson:"payment" json:"payment"`
	TotalDays   int                `bson:"total_days" json:"totalDays"`
	Status      string             `bson:"status" json:"status"`
	BookingDate time.Time          `bson:"booking_date" json:"bookingDate"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// BookingCar is a snapshot of the rented car at booking time, so a booking
// stays intact even if the catalog entry is edited or removed later.
type BookingCar struct {
	ID       string  `bson:"id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	Type     string  `bson:"type" json:"type"`
	Category string  `bson:"category" json:"category"`
	Price    float64 `bson:"price" json:"price"`
	Image    string  `bson:"image" json:"image"`
}

type BookingLocations struct {
	Pickup string `bson:"pickup" json:"pickup"`
	Return string `bson:"return" json:"return"`
}

type CustomerInfo struct {
	FirstName string `bson:"first_name" json:"firstName"`
	LastName  string `bson:"last_name" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Phone     string `bson:"phone" json:"phone"`
	Address   string `bson:"address" json:"address"`
}

// PaymentSummary is the itemized price breakdown. Only the last four digits
// of the card are kept; no payment gateway is involved.
type PaymentSummary struct {
	DailyRate    float64 `bson:"daily_rate" json:"dailyRate"`
	Subtotal     float64 `bson:"subtotal" json:"subtotal"`
	Tax          float64 `bson:"tax" json:"tax"`
	Total        float64 `bson:"total" json:"total"`
	CardLastFour string  `bson:"card_last_four" json:"cardLastFour"`
}
