package repository

import (
	"context"

	"flightwatch-service/internal/domain/entity"
)

// UserRepository defines the interface for user operations.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, offset, limit int) ([]*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, email string, enableNotifications bool) (*entity.User, error)
}
