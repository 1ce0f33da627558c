// internal/scraper/tunisair.go
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"flightwatch-service/internal/airlines"
	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/pkg/logger"
)

const (
	tunisairBaseURLDE = "https://flights.tunisair.com/en-de/prices/per-day"
	tunisairBaseURLBE = "https://flights.tunisair.com/en-be/prices/per-day"
	tunisairBaseURLTN = "https://flights.tunisair.com/en-tn/prices/per-day"

	tunisairTripType     = "O"
	tunisairTripDuration = "0"
)

// TunisairConfig tunes the adapter's retry and pacing behavior.
type TunisairConfig struct {
	MonthsToSearch  int
	RequestRetries  int
	RetryDelay      time.Duration
	RequestTimeout  time.Duration
	RequestInterval time.Duration
}

// TunisairAdapter scrapes day-granularity price calendars from the Tunisair
// flight search. Route direction decides the upstream site and the native
// currency: departures out of Tunisia quote TND, the rest quote EUR.
type TunisairAdapter struct {
	client  *http.Client
	rates   *ExchangeRateClient
	limiter *rate.Limiter
	cfg     TunisairConfig
	logger  logger.Logger

	// overridable in tests
	baseURLDE string
	baseURLBE string
	baseURLTN string
	now       func() time.Time
}

// NewTunisairAdapter creates a new Tunisair source adapter
func NewTunisairAdapter(rates *ExchangeRateClient, cfg TunisairConfig, logger logger.Logger) *TunisairAdapter {
	return &TunisairAdapter{
		client:    &http.Client{Timeout: cfg.RequestTimeout},
		rates:     rates,
		limiter:   rate.NewLimiter(rate.Every(cfg.RequestInterval), 1),
		cfg:       cfg,
		logger:    logger,
		baseURLDE: tunisairBaseURLDE,
		baseURLBE: tunisairBaseURLBE,
		baseURLTN: tunisairBaseURLTN,
		now:       time.Now,
	}
}

// Source names the upstream
func (a *TunisairAdapter) Source() string {
	return "tunisair"
}

// Fetch walks both route tables. A (route, month) pair that exhausts its
// retry budget yields no data for that pair; the job itself keeps going.
func (a *TunisairAdapter) Fetch(ctx context.Context) ([]entity.CandidateFlight, error) {
	profile, ok := airlines.Lookup(airlines.TunisairCode)
	if !ok {
		return nil, fmt.Errorf("airline %s not registered", airlines.TunisairCode)
	}

	var flights []entity.CandidateFlight

	a.logger.Info("Scraping Tunisair EUR-native routes", "routes", len(profile.EurNativeRoutes))
	for _, route := range profile.EurNativeRoutes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		flights = append(flights, a.scrapeRoute(ctx, route, airlines.CurrencyEUR, 1.0)...)
	}

	// One rate fetch covers every TND route in this run.
	conversionRate := a.rates.Rate(ctx)

	a.logger.Info("Scraping Tunisair TND-native routes",
		"routes", len(profile.TndNativeRoutes),
		"conversionRate", conversionRate)
	for _, route := range profile.TndNativeRoutes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		flights = append(flights, a.scrapeRoute(ctx, route, airlines.CurrencyTND, conversionRate)...)
	}

	return flights, nil
}

func (a *TunisairAdapter) scrapeRoute(ctx context.Context, route airlines.Route, nativeCurrency string, conversionRate float64) []entity.CandidateFlight {
	var flights []entity.CandidateFlight

	for _, searchDate := range a.searchDates() {
		if err := a.limiter.Wait(ctx); err != nil {
			return flights
		}

		view, err := a.fetchCalendar(ctx, route, nativeCurrency, searchDate)
		if err != nil {
			a.logger.Error("Giving up on Tunisair calendar",
				"from", route.From,
				"to", route.To,
				"date", searchDate,
				"error", err)
			continue
		}

		for _, offer := range parseDayPriceTable(view, nativeCurrency, conversionRate, a.logger) {
			flights = append(flights, entity.CandidateFlight{
				DepartureDate:        offer.Date,
				Price:                offer.Price,
				PriceEur:             offer.PriceEur,
				DepartureAirportCode: route.From,
				ArrivalAirportCode:   route.To,
				AirlineCode:          airlines.TunisairCode,
			})
		}
	}

	return flights
}

// searchDates covers today plus the first of each following month in the
// configured search window.
func (a *TunisairAdapter) searchDates() []string {
	today := a.now()
	dates := []string{today.Format("2006-01-02")}
	for i := 1; i < a.cfg.MonthsToSearch; i++ {
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
		dates = append(dates, first.Format("2006-01-02"))
	}
	return dates
}

// fetchCalendar requests one (route, month) calendar with a bounded retry
// budget and fixed inter-attempt delay.
func (a *TunisairAdapter) fetchCalendar(ctx context.Context, route airlines.Route, nativeCurrency, searchDate string) (string, error) {
	baseURL := a.baseURLTN
	if nativeCurrency == airlines.CurrencyEUR {
		if route.From == "BRU" {
			baseURL = a.baseURLBE
		} else {
			baseURL = a.baseURLDE
		}
	}

	params := url.Values{}
	params.Set("date", searchDate)
	params.Set("from", route.From)
	params.Set("to", route.To)
	params.Set("tripDuration", tunisairTripDuration)
	params.Set("tripType", tunisairTripType)
	requestURL := baseURL + "?" + params.Encode()

	var lastErr error
	for attempt := 1; attempt <= a.cfg.RequestRetries; attempt++ {
		view, err := a.fetchOnce(ctx, requestURL)
		if err == nil {
			return view, nil
		}
		lastErr = err
		a.logger.Warn("Tunisair calendar fetch failed",
			"attempt", attempt,
			"retries", a.cfg.RequestRetries,
			"from", route.From,
			"to", route.To,
			"date", searchDate,
			"error", err)
		if attempt < a.cfg.RequestRetries {
			select {
			case <-time.After(a.cfg.RetryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", fmt.Errorf("after %d attempts: %w", a.cfg.RequestRetries, lastErr)
}

func (a *TunisairAdapter) fetchOnce(ctx context.Context, requestURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("calendar endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		View string `json:"view"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode calendar response: %w", err)
	}
	return payload.View, nil
}
