package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flightwatch-service/pkg/logger"
)

func newTestExchangeRateClient(apiKey string, serverURL string) *ExchangeRateClient {
	c := NewExchangeRateClient(apiKey, 0.29, 3, time.Millisecond, time.Second, logger.NewNop())
	if serverURL != "" {
		c.urlTemplate = serverURL + "/%s"
	}
	return c
}

func TestRate_MissingAPIKeyUsesFallback(t *testing.T) {
	c := newTestExchangeRateClient("", "")
	if got := c.Rate(context.Background()); got != 0.29 {
		t.Errorf("Rate = %v, want fallback 0.29", got)
	}
}

func TestRate_SuccessfulFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","conversion_rates":{"EUR":0.31,"USD":0.33}}`))
	}))
	defer server.Close()

	c := newTestExchangeRateClient("test-key", server.URL)
	if got := c.Rate(context.Background()); got != 0.31 {
		t.Errorf("Rate = %v, want 0.31", got)
	}
}

func TestRate_RetriesThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"result":"success","conversion_rates":{"EUR":0.31}}`))
	}))
	defer server.Close()

	c := newTestExchangeRateClient("test-key", server.URL)
	if got := c.Rate(context.Background()); got != 0.31 {
		t.Errorf("Rate = %v, want 0.31 after retries", got)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRate_ExhaustedRetriesUseFallback(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestExchangeRateClient("test-key", server.URL)
	if got := c.Rate(context.Background()); got != 0.29 {
		t.Errorf("Rate = %v, want fallback 0.29", got)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want the full retry budget of 3", attempts)
	}
}

func TestRate_ErrorResultUsesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"error"}`))
	}))
	defer server.Close()

	c := newTestExchangeRateClient("test-key", server.URL)
	if got := c.Rate(context.Background()); got != 0.29 {
		t.Errorf("Rate = %v, want fallback 0.29", got)
	}
}
