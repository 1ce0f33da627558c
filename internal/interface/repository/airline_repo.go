package repository

import (
	"context"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAirlineRepository implements the AirlineRepository interface
type GormAirlineRepository struct {
	db *gorm.DB
}

// NewGormAirlineRepository creates a new GORM airline repository
func NewGormAirlineRepository(db *gorm.DB) repository.AirlineRepository {
	return &GormAirlineRepository{
		db: db,
	}
}

// Airlines GORM model for database mapping
type Airlines struct {
	Code      string `gorm:"column:code;primaryKey"`
	Name      string `gorm:"column:name;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Airlines) TableName() string {
	return "airlines"
}

// GetByCode finds an airline by code
func (r *GormAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	var airline Airlines
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&airline).Error; err != nil {
		return nil, err
	}
	return &entity.Airline{
		Code:      airline.Code,
		Name:      airline.Name,
		CreatedAt: airline.CreatedAt,
		UpdatedAt: airline.UpdatedAt,
	}, nil
}

// List returns all airlines
func (r *GormAirlineRepository) List(ctx context.Context) ([]*entity.Airline, error) {
	var rows []Airlines
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Airline, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Airline{
			Code:      row.Code,
			Name:      row.Name,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return out, nil
}

// Create inserts a new airline
func (r *GormAirlineRepository) Create(ctx context.Context, airline *entity.Airline) error {
	model := Airlines{
		Code: airline.Code,
		Name: airline.Name,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	airline.CreatedAt = model.CreatedAt
	airline.UpdatedAt = model.UpdatedAt
	return nil
}
