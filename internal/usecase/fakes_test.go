package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/pkg/metrics"
)

func testMetrics() *metrics.Metrics {
	return metrics.NewMetricsWith("test", prometheus.NewRegistry())
}

func identityKey(date time.Time, dep, arr, airline string) string {
	return fmt.Sprintf("%s|%s|%s|%s", date.Format("2006-01-02"), dep, arr, airline)
}

// fakeFlightRepo is an in-memory FlightRepository keyed on flight identity.
type fakeFlightRepo struct {
	flights map[string]*entity.Flight
	nextID  uint

	findErr   error
	createErr error
	updateErr error
}

func newFakeFlightRepo() *fakeFlightRepo {
	return &fakeFlightRepo{flights: map[string]*entity.Flight{}}
}

func (r *fakeFlightRepo) GetByID(ctx context.Context, id uint) (*entity.Flight, error) {
	for _, f := range r.flights {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, fmt.Errorf("flight %d not found", id)
}

func (r *fakeFlightRepo) Find(ctx context.Context, filter entity.FlightFilter) ([]*entity.Flight, error) {
	var out []*entity.Flight
	for _, f := range r.flights {
		out = append(out, f)
	}
	return out, nil
}

func (r *fakeFlightRepo) FindByIdentity(ctx context.Context, date time.Time, dep, arr, airline string) (*entity.Flight, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.flights[identityKey(date, dep, arr, airline)], nil
}

func (r *fakeFlightRepo) Create(ctx context.Context, flight *entity.Flight) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	flight.ID = r.nextID
	r.flights[identityKey(flight.DepartureDate, flight.DepartureAirportCode, flight.ArrivalAirportCode, flight.AirlineCode)] = flight
	return nil
}

func (r *fakeFlightRepo) UpdatePrice(ctx context.Context, id uint, price, priceEur float64) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	for _, f := range r.flights {
		if f.ID == id {
			f.Price = price
			f.PriceEur = priceEur
			return nil
		}
	}
	return fmt.Errorf("flight %d not found", id)
}

// fakeHistoryRepo records appended rows in order.
type fakeHistoryRepo struct {
	records   []*entity.PriceHistory
	appendErr error
}

func (r *fakeHistoryRepo) Append(ctx context.Context, record *entity.PriceHistory) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.records = append(r.records, record)
	return nil
}

func (r *fakeHistoryRepo) ListByFlight(ctx context.Context, flightID uint) ([]*entity.PriceHistory, error) {
	var out []*entity.PriceHistory
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].FlightID == flightID {
			out = append(out, r.records[i])
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) GetByID(ctx context.Context, id uint) (*entity.PriceHistory, error) {
	return nil, fmt.Errorf("not implemented")
}

func (r *fakeHistoryRepo) PriceRange(ctx context.Context, flightID uint) (*entity.PriceRange, error) {
	return nil, fmt.Errorf("not implemented")
}

func (r *fakeHistoryRepo) rowsForFlight(flightID uint) int {
	n := 0
	for _, rec := range r.records {
		if rec.FlightID == flightID {
			n++
		}
	}
	return n
}

// fakeSubscriptionRepo serves canned active subscriptions per flight and
// records deactivations.
type fakeSubscriptionRepo struct {
	active      map[uint][]*entity.Subscription
	deactivated []uint

	activeErr     error
	deactivateErr error
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{active: map[uint][]*entity.Subscription{}}
}

func (r *fakeSubscriptionRepo) GetByID(ctx context.Context, id uint) (*entity.Subscription, error) {
	return nil, fmt.Errorf("not implemented")
}

func (r *fakeSubscriptionRepo) List(ctx context.Context) ([]*entity.Subscription, error) {
	return nil, fmt.Errorf("not implemented")
}

func (r *fakeSubscriptionRepo) ListByEmail(ctx context.Context, email string) ([]*entity.Subscription, error) {
	return nil, fmt.Errorf("not implemented")
}

func (r *fakeSubscriptionRepo) GetByFlightAndEmail(ctx context.Context, flightID uint, email string) (*entity.Subscription, error) {
	return nil, fmt.Errorf("not implemented")
}

func (r *fakeSubscriptionRepo) ActiveForFlightWithNotificationsEnabled(ctx context.Context, flightID uint) ([]*entity.Subscription, error) {
	if r.activeErr != nil {
		return nil, r.activeErr
	}
	var out []*entity.Subscription
	for _, sub := range r.active[flightID] {
		if sub.IsActive {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *entity.Subscription) error {
	return fmt.Errorf("not implemented")
}

func (r *fakeSubscriptionRepo) Update(ctx context.Context, id uint, targetPrice *float64, isActive *bool) (*entity.Subscription, error) {
	return nil, fmt.Errorf("not implemented")
}

func (r *fakeSubscriptionRepo) Deactivate(ctx context.Context, id uint) error {
	if r.deactivateErr != nil {
		return r.deactivateErr
	}
	r.deactivated = append(r.deactivated, id)
	for _, subs := range r.active {
		for _, sub := range subs {
			if sub.ID == id {
				sub.IsActive = false
			}
		}
	}
	return nil
}

func (r *fakeSubscriptionRepo) Delete(ctx context.Context, id uint) error {
	return fmt.Errorf("not implemented")
}

// fakeMailer records sent alerts and can fail per recipient.
type fakeMailer struct {
	sent    []*entity.PriceAlert
	failFor map[string]bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failFor: map[string]bool{}}
}

func (m *fakeMailer) SendPriceAlert(ctx context.Context, alert *entity.PriceAlert) error {
	if m.failFor[alert.ToEmail] {
		return fmt.Errorf("smtp unavailable")
	}
	m.sent = append(m.sent, alert)
	return nil
}

// fakeBatchRepo serves pending batches and records terminal statuses.
type fakeBatchRepo struct {
	pending []*entity.ObservationBatch
	marked  map[string]markedBatch

	findErr error
}

type markedBatch struct {
	status        string
	errorDetail   string
	newFlights    int
	updatedPrices int
	alertsFired   int
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{marked: map[string]markedBatch{}}
}

func (r *fakeBatchRepo) Save(ctx context.Context, batch *entity.ObservationBatch) error {
	r.pending = append(r.pending, batch)
	return nil
}

func (r *fakeBatchRepo) FindPending(ctx context.Context, limit int) ([]*entity.ObservationBatch, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if len(r.pending) > limit {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *fakeBatchRepo) MarkProcessed(ctx context.Context, id, status, errorDetail string, newFlights, updatedPrices, alertsFired int) error {
	r.marked[id] = markedBatch{
		status:        status,
		errorDetail:   errorDetail,
		newFlights:    newFlights,
		updatedPrices: updatedPrices,
		alertsFired:   alertsFired,
	}
	return nil
}

// fakeAdapter is a canned source for orchestrator tests.
type fakeAdapter struct {
	source     string
	candidates []entity.CandidateFlight
	err        error
}

func (a *fakeAdapter) Source() string {
	return a.source
}

func (a *fakeAdapter) Fetch(ctx context.Context) ([]entity.CandidateFlight, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.candidates, nil
}
