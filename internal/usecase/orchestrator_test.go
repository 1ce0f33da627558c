package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/scraper"
	"flightwatch-service/pkg/logger"
)

func newTestPipeline(flightRepo *fakeFlightRepo, subs *fakeSubscriptionRepo, mailer *fakeMailer) (*Reconciler, *AlertDispatcher) {
	log := logger.NewNop()
	reconciler := NewReconciler(flightRepo, &fakeHistoryRepo{}, log)
	alerts := NewAlertDispatcher(subs, mailer, log, testMetrics())
	return reconciler, alerts
}

func TestOrchestrator_FailingSourceDoesNotCostTheOthers(t *testing.T) {
	flightRepo := newFakeFlightRepo()
	reconciler, alerts := newTestPipeline(flightRepo, newFakeSubscriptionRepo(), newFakeMailer())

	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	healthy := &fakeAdapter{
		source:     "tunisair",
		candidates: []entity.CandidateFlight{candidate(date, "MUC", "TUN", "TU", 150)},
	}
	broken := &fakeAdapter{source: "nouvelair", err: errors.New("no x-api-key header observed")}

	o := NewScrapeOrchestrator([]scraper.Adapter{broken, healthy}, reconciler, alerts, logger.NewNop(), testMetrics())

	err := o.Run(context.Background())
	if err == nil {
		t.Fatal("Run must surface the failing source's error")
	}
	if !strings.Contains(err.Error(), "nouvelair") {
		t.Errorf("err = %v, want it to name the failing source", err)
	}
	if len(flightRepo.flights) != 1 {
		t.Errorf("healthy source stored %d flights, want 1", len(flightRepo.flights))
	}
}

func TestOrchestrator_AllSourcesHealthy(t *testing.T) {
	flightRepo := newFakeFlightRepo()
	reconciler, alerts := newTestPipeline(flightRepo, newFakeSubscriptionRepo(), newFakeMailer())

	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	adapters := []scraper.Adapter{
		&fakeAdapter{source: "nouvelair", candidates: []entity.CandidateFlight{candidate(date, "TUN", "MUC", "BJ", 120)}},
		&fakeAdapter{source: "tunisair", candidates: []entity.CandidateFlight{candidate(date, "MUC", "TUN", "TU", 150)}},
	}

	o := NewScrapeOrchestrator(adapters, reconciler, alerts, logger.NewNop(), testMetrics())
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(flightRepo.flights) != 2 {
		t.Errorf("stored %d flights, want 2", len(flightRepo.flights))
	}
}

func TestOrchestrator_EndToEndPriceDropAlert(t *testing.T) {
	flightRepo := newFakeFlightRepo()
	subs := newFakeSubscriptionRepo()
	mailer := newFakeMailer()
	reconciler, alerts := newTestPipeline(flightRepo, subs, mailer)

	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	adapter := &fakeAdapter{
		source:     "nouvelair",
		candidates: []entity.CandidateFlight{candidate(date, "TUN", "MUC", "BJ", 120)},
	}
	o := NewScrapeOrchestrator([]scraper.Adapter{adapter}, reconciler, alerts, logger.NewNop(), testMetrics())

	// First run creates the flight at 120.
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	var flightID uint
	for _, f := range flightRepo.flights {
		flightID = f.ID
	}
	subs.active[flightID] = []*entity.Subscription{
		{ID: 10, FlightID: flightID, Email: "watcher@example.com", TargetPrice: 100, IsActive: true},
	}

	// Second run observes the drop to 95 and must fire exactly one alert.
	adapter.candidates = []entity.CandidateFlight{candidate(date, "TUN", "MUC", "BJ", 95)}
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d alerts, want 1", len(mailer.sent))
	}
	if mailer.sent[0].CurrentPrice != 95 || mailer.sent[0].TargetPrice != 100 {
		t.Errorf("alert prices = %+v, want current 95 target 100", mailer.sent[0])
	}
	if len(subs.deactivated) != 1 {
		t.Errorf("deactivated = %v, want exactly one", subs.deactivated)
	}

	// Third run with the same price is a no-op end to end.
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("third run failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Errorf("no-op run sent another alert, total %d", len(mailer.sent))
	}
}
