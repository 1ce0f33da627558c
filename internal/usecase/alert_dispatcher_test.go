package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/pkg/logger"
)

func changeFor(flightID uint, previous, current float64) entity.PriceChange {
	return entity.PriceChange{
		Flight: &entity.Flight{
			ID:                   flightID,
			DepartureDate:        time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
			Price:                current,
			PriceEur:             current,
			DepartureAirportCode: "TUN",
			ArrivalAirportCode:   "MUC",
			AirlineCode:          "BJ",
		},
		PreviousPriceEur: previous,
	}
}

func TestDispatch_CrossingSemantics(t *testing.T) {
	tests := []struct {
		name     string
		previous float64
		current  float64
		target   float64
		wantSent bool
	}{
		{"crosses from above to below", 120, 95, 100, true},
		{"lands exactly on target", 120, 100, 100, true},
		{"drops but stays above target", 120, 110, 100, false},
		{"was already below target", 95, 90, 100, false},
		{"rises from below to above", 90, 120, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs := newFakeSubscriptionRepo()
			subs.active[1] = []*entity.Subscription{
				{ID: 10, FlightID: 1, Email: "watcher@example.com", TargetPrice: tt.target, IsActive: true},
			}
			mailer := newFakeMailer()
			d := NewAlertDispatcher(subs, mailer, logger.NewNop(), testMetrics())

			fired, err := d.Dispatch(context.Background(), []entity.PriceChange{
				changeFor(1, tt.previous, tt.current),
			})
			if err != nil {
				t.Fatalf("Dispatch failed: %v", err)
			}

			if tt.wantSent {
				if fired != 1 || len(mailer.sent) != 1 {
					t.Fatalf("fired = %d, sent = %d, want 1/1", fired, len(mailer.sent))
				}
				if len(subs.deactivated) != 1 || subs.deactivated[0] != 10 {
					t.Errorf("deactivated = %v, want [10]", subs.deactivated)
				}
			} else {
				if fired != 0 || len(mailer.sent) != 0 {
					t.Fatalf("fired = %d, sent = %d, want 0/0", fired, len(mailer.sent))
				}
				if len(subs.deactivated) != 0 {
					t.Errorf("subscription deactivated without a crossing: %v", subs.deactivated)
				}
			}
		})
	}
}

func TestDispatch_AlertPayload(t *testing.T) {
	subs := newFakeSubscriptionRepo()
	subs.active[1] = []*entity.Subscription{
		{ID: 10, FlightID: 1, Email: "watcher@example.com", TargetPrice: 100, IsActive: true},
	}
	mailer := newFakeMailer()
	d := NewAlertDispatcher(subs, mailer, logger.NewNop(), testMetrics())

	if _, err := d.Dispatch(context.Background(), []entity.PriceChange{changeFor(1, 120, 95)}); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	alert := mailer.sent[0]
	if alert.ToEmail != "watcher@example.com" {
		t.Errorf("ToEmail = %q", alert.ToEmail)
	}
	if alert.OriginCode != "TUN" || alert.DestCode != "MUC" {
		t.Errorf("route = %s-%s, want TUN-MUC", alert.OriginCode, alert.DestCode)
	}
	if alert.TargetPrice != 100 || alert.CurrentPrice != 95 {
		t.Errorf("prices = %v/%v, want 100/95", alert.TargetPrice, alert.CurrentPrice)
	}
	if !strings.Contains(alert.BookingURL, "booking.nouvelair.com") {
		t.Errorf("BookingURL = %q, want a nouvelair booking link", alert.BookingURL)
	}
	if !strings.Contains(alert.BookingURL, "15.10.2026") {
		t.Errorf("BookingURL = %q, want the departure date in dd.mm.yyyy", alert.BookingURL)
	}
}

func TestDispatch_DeactivatesEvenWhenSendFails(t *testing.T) {
	subs := newFakeSubscriptionRepo()
	subs.active[1] = []*entity.Subscription{
		{ID: 10, FlightID: 1, Email: "watcher@example.com", TargetPrice: 100, IsActive: true},
	}
	mailer := newFakeMailer()
	mailer.failFor["watcher@example.com"] = true
	d := NewAlertDispatcher(subs, mailer, logger.NewNop(), testMetrics())

	fired, err := d.Dispatch(context.Background(), []entity.PriceChange{changeFor(1, 120, 95)})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if fired != 0 {
		t.Errorf("fired = %d, want 0 when the send fails", fired)
	}
	if len(subs.deactivated) != 1 {
		t.Errorf("subscription must deactivate after its one delivery attempt, deactivated = %v", subs.deactivated)
	}
}

func TestDispatch_MultipleSubscriptionsEvaluatedIndependently(t *testing.T) {
	subs := newFakeSubscriptionRepo()
	subs.active[1] = []*entity.Subscription{
		{ID: 10, FlightID: 1, Email: "a@example.com", TargetPrice: 100, IsActive: true},
		{ID: 11, FlightID: 1, Email: "b@example.com", TargetPrice: 90, IsActive: true},
		{ID: 12, FlightID: 1, Email: "c@example.com", TargetPrice: 130, IsActive: true},
	}
	mailer := newFakeMailer()
	d := NewAlertDispatcher(subs, mailer, logger.NewNop(), testMetrics())

	// 120 -> 95 crosses the 100 target, not the 90 one; the 130 target was
	// already crossed before this change.
	fired, err := d.Dispatch(context.Background(), []entity.PriceChange{changeFor(1, 120, 95)})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].ToEmail != "a@example.com" {
		t.Errorf("sent to %+v, want only a@example.com", mailer.sent)
	}
	if len(subs.deactivated) != 1 || subs.deactivated[0] != 10 {
		t.Errorf("deactivated = %v, want [10]", subs.deactivated)
	}
}

func TestDispatch_FiresAgainOnlyAfterReactivation(t *testing.T) {
	subs := newFakeSubscriptionRepo()
	sub := &entity.Subscription{ID: 10, FlightID: 1, Email: "watcher@example.com", TargetPrice: 100, IsActive: true}
	subs.active[1] = []*entity.Subscription{sub}
	mailer := newFakeMailer()
	d := NewAlertDispatcher(subs, mailer, logger.NewNop(), testMetrics())

	if _, err := d.Dispatch(context.Background(), []entity.PriceChange{changeFor(1, 120, 95)}); err != nil {
		t.Fatalf("first dispatch failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d alerts, want 1", len(mailer.sent))
	}

	// Deactivated subscription stays silent through further crossings.
	if _, err := d.Dispatch(context.Background(), []entity.PriceChange{changeFor(1, 110, 90)}); err != nil {
		t.Fatalf("second dispatch failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Errorf("deactivated subscription fired again, sent = %d", len(mailer.sent))
	}

	// A target change re-arms it; the next crossing of the new target fires.
	sub.TargetPrice = 85
	sub.IsActive = true
	if _, err := d.Dispatch(context.Background(), []entity.PriceChange{changeFor(1, 90, 80)}); err != nil {
		t.Fatalf("third dispatch failed: %v", err)
	}
	if len(mailer.sent) != 2 {
		t.Errorf("re-armed subscription did not fire, sent = %d", len(mailer.sent))
	}
}

func TestDispatch_SubscriptionLoadFailurePropagates(t *testing.T) {
	boom := errors.New("database down")
	subs := newFakeSubscriptionRepo()
	subs.activeErr = boom
	d := NewAlertDispatcher(subs, newFakeMailer(), logger.NewNop(), testMetrics())

	if _, err := d.Dispatch(context.Background(), []entity.PriceChange{changeFor(1, 120, 95)}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestDispatch_DeactivateFailurePropagates(t *testing.T) {
	boom := errors.New("database down")
	subs := newFakeSubscriptionRepo()
	subs.active[1] = []*entity.Subscription{
		{ID: 10, FlightID: 1, Email: "watcher@example.com", TargetPrice: 100, IsActive: true},
	}
	subs.deactivateErr = boom
	d := NewAlertDispatcher(subs, newFakeMailer(), logger.NewNop(), testMetrics())

	if _, err := d.Dispatch(context.Background(), []entity.PriceChange{changeFor(1, 120, 95)}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}
