package repository

import (
	"context"

	"flightwatch-service/internal/domain/entity"
)

// BatchRepository defines the interface for the observation-batch journal.
type BatchRepository interface {
	Save(ctx context.Context, batch *entity.ObservationBatch) error
	FindPending(ctx context.Context, limit int) ([]*entity.ObservationBatch, error)
	// MarkProcessed records the terminal status and per-batch counters.
	MarkProcessed(ctx context.Context, id, status, errorDetail string, newFlights, updatedPrices, alertsFired int) error
}
