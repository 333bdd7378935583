package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Car categories offered by the storefront.
const (
	CategoryEconomy  = "Economy"
	CategoryStandard = "Standard"
	CategoryLuxury   = "Luxury"
	CategoryElectric = "Electric"
	CategorySUV      = "SUV"
	CategorySports   = "Sports Car"
)

type Car struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name" validate:"required"`
	Type      string             `bson:"type" json:"type" validate:"required"`
	Category  string             `bson:"category" json:"category" validate:"required,oneof=Economy Standard Luxury Electric SUV 'Sports Car'"`
	Price     float64            `bson:"price" json:"price" validate:"required,gt=0"`
	Rating    float64            `bson:"rating" json:"rating" validate:"min=0,max=5"`
	Reviews   int                `bson:"reviews" json:"reviews" validate:"min=0"`
	Available bool               `bson:"available" json:"available"`
	Location  string             `bson:"location" json:"location"`
	Image     string             `bson:"image" json:"image"`
	Features  []string           `bson:"features" json:"features"`
	Specs     CarSpecs           `bson:"specs" json:"specs"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

type CarSpecs struct {
	Seats        int    `bson:"seats" json:"seats"`
	Transmission string `bson:"transmission" json:"transmission"`
	Fuel         string `bson:"fuel" json:"fuel"`
	Luggage      int    `bson:"luggage" json:"luggage"`
}
