package entity

import (
	"time"
)

// PriceHistory is one observed price point for a flight. Rows are append-only;
// one row is written per observation that creates a flight or changes its price.
type PriceHistory struct {
	ID        uint      `json:"id"`
	FlightID  uint      `json:"flightId"`
	Price     float64   `json:"price"`
	PriceEur  float64   `json:"priceEur"`
	Timestamp time.Time `json:"timestamp"`
}

// PriceRange is the min/max reporting-currency price a flight has been observed at.
type PriceRange struct {
	FlightID uint     `json:"flightId"`
	MinPrice *float64 `json:"minPrice"`
	MaxPrice *float64 `json:"maxPrice"`
}
