package usecase

import (
	"context"
	"errors"
	"fmt"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/metrics"
)

// BatchProcessor drains the observation-batch journal, where out-of-process
// scrapers hand their reports over through the ingestion API. Each batch runs
// through the same reconcile and alert stages as an in-process scrape.
type BatchProcessor struct {
	batchRepo  repository.BatchRepository
	reconciler *Reconciler
	alerts     *AlertDispatcher
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(
	batchRepo repository.BatchRepository,
	reconciler *Reconciler,
	alerts *AlertDispatcher,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *BatchProcessor {
	return &BatchProcessor{
		batchRepo:  batchRepo,
		reconciler: reconciler,
		alerts:     alerts,
		logger:     logger,
		metrics:    metrics,
	}
}

// ProcessPendingBatches reconciles every pending batch, oldest first. A batch
// that fails to persist is marked failed and the loop continues with the next
// one; the returned error joins every batch-level failure so the scheduler
// logs the run as failed.
func (p *BatchProcessor) ProcessPendingBatches(ctx context.Context) error {
	batches, err := p.batchRepo.FindPending(ctx, 100)
	if err != nil {
		p.logger.Error("Failed to load pending batches", "error", err)
		return err
	}
	if len(batches) == 0 {
		return nil
	}

	p.logger.Info("Found pending observation batches", "count", len(batches))

	var errs []error
	for _, batch := range batches {
		result, err := p.reconciler.Reconcile(ctx, batch.Flights)
		if err != nil {
			p.logger.Error("Failed to reconcile batch",
				"batchID", batch.ID,
				"source", batch.Source,
				"error", err)
			p.markProcessed(ctx, batch.ID, entity.BatchStatusFailed, err.Error(), 0, 0, 0)
			errs = append(errs, fmt.Errorf("batch %s: %w", batch.ID, err))
			continue
		}
		if len(result.Changes) > 0 {
			p.metrics.PriceDrops.Add(float64(len(result.Changes)))
		}

		fired, err := p.alerts.Dispatch(ctx, result.Changes)
		status := entity.BatchStatusCompleted
		errDetail := ""
		if err != nil {
			p.logger.Error("Failed to dispatch alerts for batch",
				"batchID", batch.ID,
				"error", err)
			status = entity.BatchStatusFailed
			errDetail = err.Error()
			errs = append(errs, fmt.Errorf("batch %s: %w", batch.ID, err))
		}

		p.markProcessed(ctx, batch.ID, status, errDetail, result.NewFlights, result.UpdatedPrices, fired)
		p.metrics.BatchesProcessed.Inc()
	}

	return errors.Join(errs...)
}

func (p *BatchProcessor) markProcessed(ctx context.Context, id, status, errDetail string, newFlights, updatedPrices, fired int) {
	if err := p.batchRepo.MarkProcessed(ctx, id, status, errDetail, newFlights, updatedPrices, fired); err != nil {
		p.logger.Error("Failed to mark batch as processed", "batchID", id, "error", err)
	}
}
