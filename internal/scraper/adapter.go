// Package scraper contains the source adapters that turn upstream fare data
// into normalized candidate flights. Each adapter owns its own protocol:
// auth handshake, pacing, retries. Per-route failures yield zero flights for
// that route; only a failure that means "no data at all for this source"
// surfaces as an error from Fetch.
package scraper

import (
	"context"

	"flightwatch-service/internal/domain/entity"
)

// Adapter is one upstream fare source.
type Adapter interface {
	// Source names the upstream for logs, metrics and batch journaling.
	Source() string

	// Fetch enumerates the adapter's routes and returns every candidate
	// flight observed in this run. The returned error is fatal for the
	// source: nothing was collected.
	Fetch(ctx context.Context) ([]entity.CandidateFlight, error)
}
