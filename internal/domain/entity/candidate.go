// internal/domain/entity/candidate.go
package entity

import (
	"time"
)

// CandidateFlight is one normalized price observation emitted by a source
// adapter. It is never persisted directly; the reconciler turns it into
// flight and price-history writes.
type CandidateFlight struct {
	DepartureDate        time.Time `json:"departureDate" bson:"departureDate"`
	Price                float64   `json:"price" bson:"price"`
	PriceEur             float64   `json:"priceEur" bson:"priceEur"`
	DepartureAirportCode string    `json:"departureAirportCode" bson:"departureAirportCode"`
	ArrivalAirportCode   string    `json:"arrivalAirportCode" bson:"arrivalAirportCode"`
	AirlineCode          string    `json:"airlineCode" bson:"airlineCode"`
}

// PriceChange is one change-set entry produced by a reconciliation pass:
// a flight whose persisted price just changed, paired with the reporting
// price it was at before.
type PriceChange struct {
	Flight           *Flight
	PreviousPriceEur float64
}

// PriceAlert carries everything the mailer needs for one notification.
type PriceAlert struct {
	ToEmail       string
	OriginCode    string
	DestCode      string
	DepartureDate time.Time
	TargetPrice   float64
	CurrentPrice  float64
	BookingURL    string
}
