// internal/scraper/nouvelair.go
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
	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"
)

const (
	nouvelairAvailabilityAPI = "https://webapi.nouvelair.com/api/reservation/availability"
	nouvelairSiteURL         = "https://www.nouvelair.com/"
	nouvelairAPIHost         = "webapi.nouvelair.com/api"
	nouvelairAPIKeyHeader    = "x-api-key"
	nouvelairCurrencyID      = "2" // EUR
	nouvelairTripType        = "1"

	countryTunisia = "TN"
	countryGermany = "DE"
)

// NouvelairConfig tunes the adapter's timeout and pacing behavior.
type NouvelairConfig struct {
	RequestTimeout  time.Duration
	RequestInterval time.Duration
}

// NouvelairAdapter queries the Nouvelair availability API. The API requires a
// capability token the public frontend embeds at runtime, so each run starts
// by sniffing one off a browser session; the token then lives for exactly one
// run and is passed along explicitly.
type NouvelairAdapter struct {
	capturer    TokenCapturer
	airportRepo repository.AirportRepository
	client      *http.Client
	limiter     *rate.Limiter
	logger      logger.Logger

	// overridable in tests
	availabilityURL string
}

// NewNouvelairTokenCapturer builds a browser capturer preconfigured for the
// Nouvelair frontend and its availability API host.
func NewNouvelairTokenCapturer(timeout time.Duration, logger logger.Logger) *ChromeTokenCapturer {
	return NewChromeTokenCapturer(nouvelairSiteURL, nouvelairAPIHost, nouvelairAPIKeyHeader, timeout, logger)
}

// NewNouvelairAdapter creates a new Nouvelair source adapter
func NewNouvelairAdapter(capturer TokenCapturer, airportRepo repository.AirportRepository, cfg NouvelairConfig, logger logger.Logger) *NouvelairAdapter {
	return &NouvelairAdapter{
		capturer:        capturer,
		airportRepo:     airportRepo,
		client:          &http.Client{Timeout: cfg.RequestTimeout},
		limiter:         rate.NewLimiter(rate.Every(cfg.RequestInterval), 1),
		logger:          logger,
		availabilityURL: nouvelairAvailabilityAPI,
	}
}

// Source names the upstream
func (a *NouvelairAdapter) Source() string {
	return "nouvelair"
}

// Fetch captures a token, derives the route list from airport metadata and
// queries availability per route. Failing to obtain the token or the route
// list is fatal: the run would collect nothing. A single route failing only
// costs that route's flights.
func (a *NouvelairAdapter) Fetch(ctx context.Context) ([]entity.CandidateFlight, error) {
	token, err := a.capturer.Capture(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture availability API key: %w", err)
	}

	routes, err := a.resolveRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve routes: %w", err)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("no routes derivable from airport metadata")
	}

	var flights []entity.CandidateFlight
	for _, route := range routes {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		flights = append(flights, a.fetchRoute(ctx, token, route)...)
	}
	return flights, nil
}

// resolveRoutes pairs every Tunisian airport with every German one, both
// directions.
func (a *NouvelairAdapter) resolveRoutes(ctx context.Context) ([]airlines.Route, error) {
	tunisian, err := a.airportRepo.ListByCountry(ctx, countryTunisia)
	if err != nil {
		return nil, err
	}
	german, err := a.airportRepo.ListByCountry(ctx, countryGermany)
	if err != nil {
		return nil, err
	}

	var routes []airlines.Route
	for _, tn := range tunisian {
		for _, de := range german {
			routes = append(routes, airlines.Route{From: tn.Code, To: de.Code})
			routes = append(routes, airlines.Route{From: de.Code, To: tn.Code})
		}
	}
	return routes, nil
}

// fetchRoute returns the route's candidates; any failure means zero flights
// for this route, never a failed run.
func (a *NouvelairAdapter) fetchRoute(ctx context.Context, token string, route airlines.Route) []entity.CandidateFlight {
	records, err := a.fetchAvailability(ctx, token, route)
	if err != nil {
		a.logger.Error("Nouvelair availability fetch failed",
			"from", route.From,
			"to", route.To,
			"error", err)
		return nil
	}

	var flights []entity.CandidateFlight
	for _, record := range records {
		price, err := record.Price.Float64()
		if err != nil {
			a.logger.Warn("Skipping malformed Nouvelair record",
				"date", record.Date,
				"price", record.Price.String(),
				"error", err)
			continue
		}
		if price <= 0 {
			continue
		}
		date, err := time.Parse("2006-01-02", record.Date)
		if err != nil {
			a.logger.Warn("Skipping malformed Nouvelair record",
				"date", record.Date,
				"error", err)
			continue
		}
		flights = append(flights, entity.CandidateFlight{
			DepartureDate:        date,
			Price:                price,
			PriceEur:             price,
			DepartureAirportCode: route.From,
			ArrivalAirportCode:   route.To,
			AirlineCode:          airlines.NouvelairCode,
		})
	}
	return flights
}

type nouvelairRecord struct {
	Date  string      `json:"date"`
	Price json.Number `json:"price"`
}

func (a *NouvelairAdapter) fetchAvailability(ctx context.Context, token string, route airlines.Route) ([]nouvelairRecord, error) {
	params := url.Values{}
	params.Set("departure_code", route.From)
	params.Set("destination_code", route.To)
	params.Set("trip_type", nouvelairTripType)
	params.Set("currency_id", nouvelairCurrencyID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.availabilityURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Origin", nouvelairSiteURL)
	req.Header.Set(nouvelairAPIKeyHeader, token)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("availability API returned status %d", resp.StatusCode)
	}

	var payload struct {
		Data []nouvelairRecord `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode availability response: %w", err)
	}
	return payload.Data, nil
}
