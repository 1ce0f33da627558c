package repository

import (
	"context"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAirportRepository implements the AirportRepository interface
type GormAirportRepository struct {
	db *gorm.DB
}

// NewGormAirportRepository creates a new GORM airport repository
func NewGormAirportRepository(db *gorm.DB) repository.AirportRepository {
	return &GormAirportRepository{
		db: db,
	}
}

// Airports GORM model for database mapping
type Airports struct {
	Code      string `gorm:"column:code;primaryKey"`
	Name      string `gorm:"column:name"`
	Country   string `gorm:"column:country;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Airports) TableName() string {
	return "airports"
}

func (m *Airports) toEntity() *entity.Airport {
	return &entity.Airport{
		Code:      m.Code,
		Name:      m.Name,
		Country:   m.Country,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// GetByCode finds an airport by code
func (r *GormAirportRepository) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	var airport Airports
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&airport).Error; err != nil {
		return nil, err
	}
	return airport.toEntity(), nil
}

// List returns all airports
func (r *GormAirportRepository) List(ctx context.Context) ([]*entity.Airport, error) {
	var rows []Airports
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Airport, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}

// ListByCountry returns airports in one country, for route derivation
func (r *GormAirportRepository) ListByCountry(ctx context.Context, country string) ([]*entity.Airport, error) {
	var rows []Airports
	if err := r.db.WithContext(ctx).Where("country = ?", country).Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Airport, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}

// Create inserts a new airport
func (r *GormAirportRepository) Create(ctx context.Context, airport *entity.Airport) error {
	model := Airports{
		Code:    airport.Code,
		Name:    airport.Name,
		Country: airport.Country,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	airport.CreatedAt = model.CreatedAt
	airport.UpdatedAt = model.UpdatedAt
	return nil
}

// Update replaces an airport's name and country
func (r *GormAirportRepository) Update(ctx context.Context, code string, airport *entity.Airport) (*entity.Airport, error) {
	var model Airports
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, err
	}
	updates := map[string]interface{}{"name": airport.Name, "country": airport.Country}
	if err := r.db.WithContext(ctx).Model(&model).Updates(updates).Error; err != nil {
		return nil, err
	}
	model.Name = airport.Name
	model.Country = airport.Country
	return model.toEntity(), nil
}

// Delete removes an airport
func (r *GormAirportRepository) Delete(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Where("code = ?", code).Delete(&Airports{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
