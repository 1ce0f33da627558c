package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"flightwatch-service/pkg/logger"
)

const defaultExchangeRateURL = "https://v6.exchangerate-api.com/v6/%s/latest/TND"

// ExchangeRateClient fetches the TND to EUR conversion rate once per job.
// Persistent failure falls back to a configured rate instead of aborting.
type ExchangeRateClient struct {
	apiKey       string
	fallbackRate float64
	retries      int
	retryDelay   time.Duration
	client       *http.Client
	urlTemplate  string
	logger       logger.Logger
}

// NewExchangeRateClient creates a new exchange rate client
func NewExchangeRateClient(apiKey string, fallbackRate float64, retries int, retryDelay, timeout time.Duration, logger logger.Logger) *ExchangeRateClient {
	return &ExchangeRateClient{
		apiKey:       apiKey,
		fallbackRate: fallbackRate,
		retries:      retries,
		retryDelay:   retryDelay,
		client:       &http.Client{Timeout: timeout},
		urlTemplate:  defaultExchangeRateURL,
		logger:       logger,
	}
}

// Rate returns how many EUR one TND is worth. It never fails: exhausted
// retries or a missing API key substitute the fallback rate, with a log entry.
func (c *ExchangeRateClient) Rate(ctx context.Context) float64 {
	if c.apiKey == "" {
		c.logger.Warn("EXCHANGE_RATE_API_KEY not set, using fallback rate", "rate", c.fallbackRate)
		return c.fallbackRate
	}

	url := fmt.Sprintf(c.urlTemplate, c.apiKey)
	for attempt := 1; attempt <= c.retries; attempt++ {
		rate, err := c.fetch(ctx, url)
		if err == nil {
			c.logger.Info("Fetched exchange rate", "rate", rate)
			return rate
		}
		c.logger.Warn("Exchange rate fetch failed",
			"attempt", attempt,
			"retries", c.retries,
			"error", err)
		if attempt < c.retries {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				c.logger.Error("Exchange rate fetch cancelled, using fallback rate", "rate", c.fallbackRate)
				return c.fallbackRate
			}
		}
	}

	c.logger.Error("Exchange rate unavailable after retries, using fallback rate",
		"retries", c.retries,
		"rate", c.fallbackRate)
	return c.fallbackRate
}

func (c *ExchangeRateClient) fetch(ctx context.Context, url string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("exchange rate API returned status %d", resp.StatusCode)
	}

	var payload struct {
		Result          string             `json:"result"`
		ConversionRates map[string]float64 `json:"conversion_rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode exchange rate response: %w", err)
	}
	if payload.Result != "success" {
		return 0, fmt.Errorf("exchange rate API returned result %q", payload.Result)
	}
	rate, ok := payload.ConversionRates["EUR"]
	if !ok {
		return 0, fmt.Errorf("exchange rate response missing EUR rate")
	}
	return rate, nil
}
