package repository

import (
	"context"

	"flightwatch-service/internal/domain/entity"
)

// MailerRepository handles outbound price-alert delivery. Fire-and-forget:
// callers log failures but never retry within a run.
type MailerRepository interface {
	SendPriceAlert(ctx context.Context, alert *entity.PriceAlert) error
}
