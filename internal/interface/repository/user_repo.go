package repository

import (
	"context"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormUserRepository implements the UserRepository interface
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) repository.UserRepository {
	return &GormUserRepository{
		db: db,
	}
}

// Users GORM model for database mapping
type Users struct {
	Email               string `gorm:"column:email;primaryKey"`
	EnableNotifications bool   `gorm:"column:enable_notifications;default:true"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName overrides the default table name
func (Users) TableName() string {
	return "users"
}

func (m *Users) toEntity() *entity.User {
	return &entity.User{
		Email:               m.Email,
		EnableNotifications: m.EnableNotifications,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// GetByEmail finds a user by email
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user Users
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return user.toEntity(), nil
}

// List returns users with simple offset pagination
func (r *GormUserRepository) List(ctx context.Context, offset, limit int) ([]*entity.User, error) {
	var rows []Users
	if err := r.db.WithContext(ctx).Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}

// Create inserts a new user
func (r *GormUserRepository) Create(ctx context.Context, user *entity.User) error {
	model := Users{
		Email:               user.Email,
		EnableNotifications: user.EnableNotifications,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	return nil
}

// Update changes the notification setting
func (r *GormUserRepository) Update(ctx context.Context, email string, enableNotifications bool) (*entity.User, error) {
	var user Users
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&user).Update("enable_notifications", enableNotifications).Error; err != nil {
		return nil, err
	}
	user.EnableNotifications = enableNotifications
	return user.toEntity(), nil
}
