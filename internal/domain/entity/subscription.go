package entity

import (
	"time"
)

// Subscription is a user's standing price watch on one flight. It stays active
// until an alert fires for it; changing the target price re-arms it.
type Subscription struct {
	ID          uint      `json:"id"`
	FlightID    uint      `json:"flightId"`
	Email       string    `json:"email"`
	TargetPrice float64   `json:"targetPrice"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// User holds the notification identity an alert is delivered to.
type User struct {
	Email               string    `json:"email"`
	EnableNotifications bool      `json:"enableNotifications"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}
