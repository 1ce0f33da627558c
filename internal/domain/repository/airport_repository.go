package repository

import (
	"context"

	"flightwatch-service/internal/domain/entity"
)

// AirportRepository defines the interface for airport metadata operations.
type AirportRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airport, error)
	List(ctx context.Context) ([]*entity.Airport, error)
	ListByCountry(ctx context.Context, country string) ([]*entity.Airport, error)
	Create(ctx context.Context, airport *entity.Airport) error
	Update(ctx context.Context, code string, airport *entity.Airport) (*entity.Airport, error)
	Delete(ctx context.Context, code string) error
}

// AirlineRepository defines the interface for airline lookup operations.
type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
	List(ctx context.Context) ([]*entity.Airline, error)
	Create(ctx context.Context, airline *entity.Airline) error
}
