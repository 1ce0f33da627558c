// internal/domain/entity/flight.go
package entity

import (
	"time"
)

// Flight is one tracked fare, unique per identity key
// (departure date, departure airport, arrival airport, airline).
type Flight struct {
	ID                   uint      `json:"id"`
	DepartureDate        time.Time `json:"departureDate"`
	Price                float64   `json:"price"`
	PriceEur             float64   `json:"priceEur"`
	DepartureAirportCode string    `json:"departureAirportCode"`
	ArrivalAirportCode   string    `json:"arrivalAirportCode"`
	AirlineCode          string    `json:"airlineCode"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// FlightIdentity is the four-tuple that uniquely names a flight.
type FlightIdentity struct {
	DepartureDate        time.Time
	DepartureAirportCode string
	ArrivalAirportCode   string
	AirlineCode          string
}

// Identity returns the flight's identity key.
func (f *Flight) Identity() FlightIdentity {
	return FlightIdentity{
		DepartureDate:        f.DepartureDate,
		DepartureAirportCode: f.DepartureAirportCode,
		ArrivalAirportCode:   f.ArrivalAirportCode,
		AirlineCode:          f.AirlineCode,
	}
}

// FlightFilter narrows flight listings in read APIs.
type FlightFilter struct {
	DepartureAirportCodes []string
	ArrivalAirportCodes   []string
	AirlineCodes          []string
	StartDate             *time.Time
	EndDate               *time.Time
}
