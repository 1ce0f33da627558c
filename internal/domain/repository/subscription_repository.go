package repository

import (
	"context"

	"flightwatch-service/internal/domain/entity"
)

// SubscriptionRepository defines the interface for subscription operations.
// The alert dispatcher is the only writer of the active flag on the alert path.
type SubscriptionRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Subscription, error)
	List(ctx context.Context) ([]*entity.Subscription, error)
	ListByEmail(ctx context.Context, email string) ([]*entity.Subscription, error)
	GetByFlightAndEmail(ctx context.Context, flightID uint, email string) (*entity.Subscription, error)
	// ActiveForFlightWithNotificationsEnabled joins against users so that
	// muted accounts never receive alerts.
	ActiveForFlightWithNotificationsEnabled(ctx context.Context, flightID uint) ([]*entity.Subscription, error)
	Create(ctx context.Context, sub *entity.Subscription) error
	// Update re-arms the subscription when the target price changes.
	Update(ctx context.Context, id uint, targetPrice *float64, isActive *bool) (*entity.Subscription, error)
	Deactivate(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}
