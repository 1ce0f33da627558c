package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"flightwatch-service/internal/scraper"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/metrics"
)

// ScrapeOrchestrator runs the registered source adapters and pushes each
// source's batch through the reconcile and alert stages. Sources are
// independent units of work: one adapter failing fatally never costs the
// others their results, but the failure is never swallowed either.
type ScrapeOrchestrator struct {
	adapters   []scraper.Adapter
	reconciler *Reconciler
	alerts     *AlertDispatcher
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// NewScrapeOrchestrator creates a new scrape orchestrator
func NewScrapeOrchestrator(
	adapters []scraper.Adapter,
	reconciler *Reconciler,
	alerts *AlertDispatcher,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *ScrapeOrchestrator {
	return &ScrapeOrchestrator{
		adapters:   adapters,
		reconciler: reconciler,
		alerts:     alerts,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run executes one scrape job per adapter, concurrently, each with its own
// network session. The returned error joins every source-level failure so the
// scheduler knows which sources produced no data.
func (o *ScrapeOrchestrator) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make([]error, len(o.adapters))

	for i, adapter := range o.adapters {
		wg.Add(1)
		go func(i int, adapter scraper.Adapter) {
			defer wg.Done()
			errs[i] = o.runSource(ctx, adapter)
		}(i, adapter)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// runSource drives one adapter to completion and hands its whole batch to the
// reconciler as a single call.
func (o *ScrapeOrchestrator) runSource(ctx context.Context, adapter scraper.Adapter) error {
	source := adapter.Source()
	start := time.Now()
	o.logger.Info("Starting scrape job", "source", source)

	candidates, err := adapter.Fetch(ctx)
	if err != nil {
		o.logger.Error("Scrape job aborted, no data collected for source",
			"source", source,
			"error", err)
		o.metrics.ErrorsCount.WithLabelValues("scrape_" + source).Inc()
		return fmt.Errorf("%s: %w", source, err)
	}
	o.metrics.FlightsScraped.WithLabelValues(source).Add(float64(len(candidates)))

	result, err := o.reconciler.Reconcile(ctx, candidates)
	if err != nil {
		o.logger.Error("Scrape job failed to persist its findings",
			"source", source,
			"error", err)
		o.metrics.ErrorsCount.WithLabelValues("reconcile").Inc()
		return fmt.Errorf("%s: %w", source, err)
	}
	if len(result.Changes) > 0 {
		o.metrics.PriceDrops.Add(float64(len(result.Changes)))
	}

	fired, err := o.alerts.Dispatch(ctx, result.Changes)
	if err != nil {
		o.logger.Error("Scrape job failed during alert dispatch",
			"source", source,
			"error", err)
		o.metrics.ErrorsCount.WithLabelValues("dispatch").Inc()
		return fmt.Errorf("%s: %w", source, err)
	}

	o.metrics.ScrapeDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	o.logger.Info("Scrape job finished",
		"source", source,
		"candidates", len(candidates),
		"newFlights", result.NewFlights,
		"updatedPrices", result.UpdatedPrices,
		"alertsFired", fired,
		"duration", time.Since(start).String())
	return nil
}
