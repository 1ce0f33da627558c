package entity

import (
	"time"
)

// Batch Process Status
const (
	BatchStatusPending    = "PENDING"
	BatchStatusProcessing = "PROCESSING"
	BatchStatusCompleted  = "COMPLETED"
	BatchStatusFailed     = "FAILED"
)

// ObservationBatch is one reported batch of flight observations waiting to be
// reconciled, journaled so an out-of-process scraper can hand data over and the
// pipeline can drain it on its own schedule.
type ObservationBatch struct {
	ID            string            `bson:"_id,omitempty"`
	Source        string            `bson:"source"`
	Flights       []CandidateFlight `bson:"flights"`
	ProcessStatus string            `bson:"processStatus"`
	ReceivedAt    time.Time         `bson:"receivedAt"`
	ProcessedAt   time.Time         `bson:"processedAt,omitempty"`
	ErrorDetail   string            `bson:"errorDetail,omitempty"`
	NewFlights    int               `bson:"newFlights"`
	UpdatedPrices int               `bson:"updatedPrices"`
	AlertsFired   int               `bson:"alertsFired"`
}
