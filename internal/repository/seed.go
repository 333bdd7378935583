package repository

import (
	"log"
	"time"

	"rental-backend/internal/models"
)

// SeedCars inserts the sample catalog when the cars collection is empty, so
// a fresh install has something to browse.
func SeedCars(repo *CarRepository) error {
	count, err := repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Cars collection is empty, seeding sample catalog")

	for i := range sampleCars {
		car := sampleCars[i]
		car.Available = true
		car.CreatedAt = time.Now()
		car.UpdatedAt = time.Now()
		if _, err := repo.Create(&car); err != nil {
			return err
		}
	}

	return nil
}

var sampleCars = []models.Car{
	{
		Name:     "Honda Civic",
		Type:     "Sedan",
		Category: models.CategoryEconomy,
		Price:    3000,
		Rating:   4.5,
		Reviews:  128,
		Location: "Downtown Branch",
		Image:    "/images/cars/honda-civic.jpg",
		Features: []string{"Bluetooth", "Backup Camera", "Cruise Control"},
		Specs:    models.CarSpecs{Seats: 5, Transmission: "Automatic", Fuel: "Petrol", Luggage: 3},
	},
	{
		Name:     "Toyota Camry",
		Type:     "Sedan",
		Category: models.CategoryStandard,
		Price:    5000,
		Rating:   4.7,
		Reviews:  203,
		Location: "Airport Branch",
		Image:    "/images/cars/toyota-camry.jpg",
		Features: []string{"Bluetooth", "Sunroof", "Lane Assist", "Heated Seats"},
		Specs:    models.CarSpecs{Seats: 5, Transmission: "Automatic", Fuel: "Hybrid", Luggage: 4},
	},
	{
		Name:     "Tesla Model 3",
		Type:     "Sedan",
		Category: models.CategoryElectric,
		Price:    6500,
		Rating:   4.8,
		Reviews:  312,
		Location: "Downtown Branch",
		Image:    "/images/cars/tesla-model-3.jpg",
		Features: []string{"Autopilot", "Premium Audio", "Glass Roof"},
		Specs:    models.CarSpecs{Seats: 5, Transmission: "Automatic", Fuel: "Electric", Luggage: 3},
	},
	{
		Name:     "Toyota RAV4",
		Type:     "SUV",
		Category: models.CategorySUV,
		Price:    5500,
		Rating:   4.6,
		Reviews:  176,
		Location: "Airport Branch",
		Image:    "/images/cars/toyota-rav4.jpg",
		Features: []string{"AWD", "Roof Rails", "Apple CarPlay"},
		Specs:    models.CarSpecs{Seats: 5, Transmission: "Automatic", Fuel: "Petrol", Luggage: 5},
	},
	{
		Name:     "BMW 7 Series",
		Type:     "Sedan",
		Category: models.CategoryLuxury,
		Price:    12000,
		Rating:   4.9,
		Reviews:  87,
		Location: "City Center Branch",
		Image:    "/images/cars/bmw-7-series.jpg",
		Features: []string{"Massage Seats", "Premium Audio", "Night Vision", "Chauffeur Package"},
		Specs:    models.CarSpecs{Seats: 5, Transmission: "Automatic", Fuel: "Petrol", Luggage: 4},
	},
	{
		Name:     "Porsche 911",
		Type:     "Coupe",
		Category: models.CategorySports,
		Price:    18000,
		Rating:   4.9,
		Reviews:  64,
		Location: "City Center Branch",
		Image:    "/images/cars/porsche-911.jpg",
		Features: []string{"Sport Chrono", "Launch Control", "Premium Audio"},
		Specs:    models.CarSpecs{Seats: 2, Transmission: "Automatic", Fuel: "Petrol", Luggage: 1},
	},
}
