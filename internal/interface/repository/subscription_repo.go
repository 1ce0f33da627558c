package repository

import (
	"context"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormSubscriptionRepository implements the SubscriptionRepository interface
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GORM subscription repository
func NewGormSubscriptionRepository(db *gorm.DB) repository.SubscriptionRepository {
	return &GormSubscriptionRepository{
		db: db,
	}
}

// Subscriptions GORM model for database mapping
type Subscriptions struct {
	ID          uint    `gorm:"primaryKey"`
	FlightID    uint    `gorm:"column:flight_id;uniqueIndex:idx_subscription_flight_email"`
	Email       string  `gorm:"column:email;index;uniqueIndex:idx_subscription_flight_email"`
	TargetPrice float64 `gorm:"column:target_price"`
	IsActive    bool    `gorm:"column:is_active"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default table name
func (Subscriptions) TableName() string {
	return "subscriptions"
}

func (m *Subscriptions) toEntity() *entity.Subscription {
	return &entity.Subscription{
		ID:          m.ID,
		FlightID:    m.FlightID,
		Email:       m.Email,
		TargetPrice: m.TargetPrice,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toEntities(rows []Subscriptions) []*entity.Subscription {
	out := make([]*entity.Subscription, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out
}

// GetByID finds a subscription by primary key
func (r *GormSubscriptionRepository) GetByID(ctx context.Context, id uint) (*entity.Subscription, error) {
	var sub Subscriptions
	if err := r.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, err
	}
	return sub.toEntity(), nil
}

// List returns all active subscriptions
func (r *GormSubscriptionRepository) List(ctx context.Context) ([]*entity.Subscription, error) {
	var rows []Subscriptions
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// ListByEmail returns all subscriptions belonging to a user
func (r *GormSubscriptionRepository) ListByEmail(ctx context.Context, email string) ([]*entity.Subscription, error) {
	var rows []Subscriptions
	if err := r.db.WithContext(ctx).Where("email = ?", email).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// GetByFlightAndEmail finds one user's subscription on one flight
func (r *GormSubscriptionRepository) GetByFlightAndEmail(ctx context.Context, flightID uint, email string) (*entity.Subscription, error) {
	var sub Subscriptions
	err := r.db.WithContext(ctx).
		Where("flight_id = ? AND email = ?", flightID, email).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return sub.toEntity(), nil
}

// ActiveForFlightWithNotificationsEnabled returns active subscriptions on a
// flight whose owner has notifications enabled
func (r *GormSubscriptionRepository) ActiveForFlightWithNotificationsEnabled(ctx context.Context, flightID uint) ([]*entity.Subscription, error) {
	var rows []Subscriptions
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.email = subscriptions.email").
		Where("subscriptions.flight_id = ?", flightID).
		Where("subscriptions.is_active = ?", true).
		Where("users.enable_notifications = ?", true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// Create inserts a new subscription, always starting active
func (r *GormSubscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) error {
	model := Subscriptions{
		FlightID:    sub.FlightID,
		Email:       sub.Email,
		TargetPrice: sub.TargetPrice,
		IsActive:    true,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	sub.ID = model.ID
	sub.IsActive = true
	sub.CreatedAt = model.CreatedAt
	sub.UpdatedAt = model.UpdatedAt
	return nil
}

// Update applies the provided fields. A changed target price re-arms the
// subscription; an explicit isActive always wins over that.
func (r *GormSubscriptionRepository) Update(ctx context.Context, id uint, targetPrice *float64, isActive *bool) (*entity.Subscription, error) {
	var sub Subscriptions
	if err := r.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if targetPrice != nil {
		if *targetPrice != sub.TargetPrice {
			updates["is_active"] = true
		}
		updates["target_price"] = *targetPrice
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&sub).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return sub.toEntity(), nil
}

// Deactivate flips the active flag off after a fired alert
func (r *GormSubscriptionRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&Subscriptions{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a subscription
func (r *GormSubscriptionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&Subscriptions{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
