package entity

import (
	"time"
)

// Airport is a route-table entry; the country field drives route derivation.
type Airport struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Airline is a lookup-table entry for a carrier.
type Airline struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
