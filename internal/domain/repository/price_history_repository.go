package repository

import (
	"context"

	"flightwatch-service/internal/domain/entity"
)

// PriceHistoryRepository defines the interface for the append-only price trail.
type PriceHistoryRepository interface {
	Append(ctx context.Context, record *entity.PriceHistory) error
	// ListByFlight returns entries newest first.
	ListByFlight(ctx context.Context, flightID uint) ([]*entity.PriceHistory, error)
	GetByID(ctx context.Context, id uint) (*entity.PriceHistory, error)
	PriceRange(ctx context.Context, flightID uint) (*entity.PriceRange, error)
}
