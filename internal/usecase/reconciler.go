package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"
)

// priceTolerance absorbs floating-point noise: a native-price delta must
// exceed it to count as a genuine change.
const priceTolerance = 0.01

// ReconcileResult summarizes one reconciliation pass.
type ReconcileResult struct {
	Changes       []entity.PriceChange
	NewFlights    int
	UpdatedPrices int
}

// Reconciler diffs observed candidate flights against persisted state. It is
// the single owner of flight and price-history writes, which keeps the
// "every create or price change gets exactly one history row" invariant in
// one place instead of at every call site.
type Reconciler struct {
	flightRepo  repository.FlightRepository
	historyRepo repository.PriceHistoryRepository
	logger      logger.Logger
}

// NewReconciler creates a new reconciler
func NewReconciler(
	flightRepo repository.FlightRepository,
	historyRepo repository.PriceHistoryRepository,
	logger logger.Logger,
) *Reconciler {
	return &Reconciler{
		flightRepo:  flightRepo,
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// Reconcile processes a batch of observations. New identities create a flight
// plus its first history row but never enter the change-set; a changed price
// updates the flight in place, appends a history row and records the previous
// reporting price in the change-set; an unchanged observation writes nothing.
// Any persistence failure aborts the pass: a run that cannot persist its
// findings is a whole-run failure, not a partial success.
func (r *Reconciler) Reconcile(ctx context.Context, batch []entity.CandidateFlight) (*ReconcileResult, error) {
	result := &ReconcileResult{}

	for _, candidate := range batch {
		existing, err := r.flightRepo.FindByIdentity(ctx,
			candidate.DepartureDate,
			candidate.DepartureAirportCode,
			candidate.ArrivalAirportCode,
			candidate.AirlineCode)
		if err != nil {
			return nil, fmt.Errorf("look up flight: %w", err)
		}

		now := time.Now()

		if existing == nil {
			flight := &entity.Flight{
				DepartureDate:        candidate.DepartureDate,
				Price:                candidate.Price,
				PriceEur:             candidate.PriceEur,
				DepartureAirportCode: candidate.DepartureAirportCode,
				ArrivalAirportCode:   candidate.ArrivalAirportCode,
				AirlineCode:          candidate.AirlineCode,
			}
			if err := r.flightRepo.Create(ctx, flight); err != nil {
				return nil, fmt.Errorf("create flight: %w", err)
			}
			if err := r.appendHistory(ctx, flight.ID, candidate, now); err != nil {
				return nil, err
			}
			result.NewFlights++
			continue
		}

		if math.Abs(existing.Price-candidate.Price) <= priceTolerance {
			// No-op observation, no write.
			continue
		}

		previousPriceEur := existing.PriceEur
		if err := r.flightRepo.UpdatePrice(ctx, existing.ID, candidate.Price, candidate.PriceEur); err != nil {
			return nil, fmt.Errorf("update flight %d price: %w", existing.ID, err)
		}
		existing.Price = candidate.Price
		existing.PriceEur = candidate.PriceEur

		if err := r.appendHistory(ctx, existing.ID, candidate, now); err != nil {
			return nil, err
		}
		result.UpdatedPrices++
		result.Changes = append(result.Changes, entity.PriceChange{
			Flight:           existing,
			PreviousPriceEur: previousPriceEur,
		})
	}

	r.logger.Info("Processed observation batch",
		"observations", len(batch),
		"newFlights", result.NewFlights,
		"updatedPrices", result.UpdatedPrices)

	return result, nil
}

func (r *Reconciler) appendHistory(ctx context.Context, flightID uint, candidate entity.CandidateFlight, ts time.Time) error {
	record := &entity.PriceHistory{
		FlightID:  flightID,
		Price:     candidate.Price,
		PriceEur:  candidate.PriceEur,
		Timestamp: ts,
	}
	if err := r.historyRepo.Append(ctx, record); err != nil {
		return fmt.Errorf("append price history for flight %d: %w", flightID, err)
	}
	return nil
}
