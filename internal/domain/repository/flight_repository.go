package repository

import (
	"context"
	"time"

	"flightwatch-service/internal/domain/entity"
)

// FlightRepository defines the interface for flight storage operations.
// The reconciler is the only writer of flight prices.
type FlightRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Flight, error)
	Find(ctx context.Context, filter entity.FlightFilter) ([]*entity.Flight, error)
	// FindByIdentity returns nil without error when no flight matches the key.
	FindByIdentity(ctx context.Context, date time.Time, depCode, arrCode, airlineCode string) (*entity.Flight, error)
	Create(ctx context.Context, flight *entity.Flight) error
	UpdatePrice(ctx context.Context, id uint, price, priceEur float64) error
}
