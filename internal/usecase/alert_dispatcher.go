package usecase

import (
	"context"
	"fmt"

	"flightwatch-service/internal/airlines"
	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/metrics"
)

// AlertDispatcher consumes a reconciliation change-set and drives one-shot
// notifications. It is the single owner of the subscription active flag on
// the alert path.
type AlertDispatcher struct {
	subscriptionRepo repository.SubscriptionRepository
	mailer           repository.MailerRepository
	logger           logger.Logger
	metrics          *metrics.Metrics
}

// NewAlertDispatcher creates a new alert dispatcher
func NewAlertDispatcher(
	subscriptionRepo repository.SubscriptionRepository,
	mailer repository.MailerRepository,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *AlertDispatcher {
	return &AlertDispatcher{
		subscriptionRepo: subscriptionRepo,
		mailer:           mailer,
		logger:           logger,
		metrics:          metrics,
	}
}

// Dispatch evaluates every change-set entry against its flight's active
// subscriptions. A subscription fires only on a genuine crossing: the price
// was above target before this change and at or below it after. Each firing
// gets at most one delivery attempt, then the subscription deactivates; a
// failed send is logged and counted but never retried within the run.
func (d *AlertDispatcher) Dispatch(ctx context.Context, changes []entity.PriceChange) (int, error) {
	fired := 0

	for _, change := range changes {
		flight := change.Flight

		subs, err := d.subscriptionRepo.ActiveForFlightWithNotificationsEnabled(ctx, flight.ID)
		if err != nil {
			return fired, fmt.Errorf("load subscriptions for flight %d: %w", flight.ID, err)
		}

		for _, sub := range subs {
			if !crossed(change.PreviousPriceEur, flight.PriceEur, sub.TargetPrice) {
				d.logger.Debug("No crossing for subscription",
					"subscriptionID", sub.ID,
					"target", sub.TargetPrice,
					"previous", change.PreviousPriceEur,
					"current", flight.PriceEur)
				continue
			}

			d.logger.Info("Price alert triggered",
				"subscriptionID", sub.ID,
				"email", sub.Email,
				"flightID", flight.ID,
				"target", sub.TargetPrice,
				"current", flight.PriceEur)

			alert := &entity.PriceAlert{
				ToEmail:       sub.Email,
				OriginCode:    flight.DepartureAirportCode,
				DestCode:      flight.ArrivalAirportCode,
				DepartureDate: flight.DepartureDate,
				TargetPrice:   sub.TargetPrice,
				CurrentPrice:  flight.PriceEur,
				BookingURL:    airlines.BookingURL(flight),
			}

			if err := d.mailer.SendPriceAlert(ctx, alert); err != nil {
				d.logger.Error("Failed to send price alert",
					"subscriptionID", sub.ID,
					"email", sub.Email,
					"error", err)
				d.metrics.ErrorsCount.WithLabelValues("send_alert").Inc()
			} else {
				fired++
				d.metrics.AlertsSent.Inc()
			}

			// One delivery attempt per crossing: the flag flips regardless of
			// the send outcome, and only a target change re-arms it.
			if err := d.subscriptionRepo.Deactivate(ctx, sub.ID); err != nil {
				return fired, fmt.Errorf("deactivate subscription %d: %w", sub.ID, err)
			}
		}
	}

	return fired, nil
}

// crossed is the strict threshold-crossing test: a flight already below
// target before this change does not re-alert.
func crossed(previous, current, target float64) bool {
	return previous > target && current <= target
}
