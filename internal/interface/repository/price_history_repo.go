package repository

import (
	"context"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormPriceHistoryRepository implements the PriceHistoryRepository interface
type GormPriceHistoryRepository struct {
	db *gorm.DB
}

// NewGormPriceHistoryRepository creates a new GORM price history repository
func NewGormPriceHistoryRepository(db *gorm.DB) repository.PriceHistoryRepository {
	return &GormPriceHistoryRepository{
		db: db,
	}
}

// FlightPriceHistory GORM model for database mapping
type FlightPriceHistory struct {
	ID        uint      `gorm:"primaryKey"`
	FlightID  uint      `gorm:"column:flight_id;index"`
	Price     float64   `gorm:"column:price"`
	PriceEur  float64   `gorm:"column:price_eur"`
	Timestamp time.Time `gorm:"column:timestamp"`
}

// TableName overrides the default table name
func (FlightPriceHistory) TableName() string {
	return "flight_price_history"
}

func (m *FlightPriceHistory) toEntity() *entity.PriceHistory {
	return &entity.PriceHistory{
		ID:        m.ID,
		FlightID:  m.FlightID,
		Price:     m.Price,
		PriceEur:  m.PriceEur,
		Timestamp: m.Timestamp,
	}
}

// Append inserts a new price history row
func (r *GormPriceHistoryRepository) Append(ctx context.Context, record *entity.PriceHistory) error {
	model := FlightPriceHistory{
		FlightID:  record.FlightID,
		Price:     record.Price,
		PriceEur:  record.PriceEur,
		Timestamp: record.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	record.ID = model.ID
	return nil
}

// ListByFlight returns a flight's price trail, newest first
func (r *GormPriceHistoryRepository) ListByFlight(ctx context.Context, flightID uint) ([]*entity.PriceHistory, error) {
	var rows []FlightPriceHistory
	err := r.db.WithContext(ctx).
		Where("flight_id = ?", flightID).
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.PriceHistory, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}

// GetByID finds a price history row by primary key
func (r *GormPriceHistoryRepository) GetByID(ctx context.Context, id uint) (*entity.PriceHistory, error) {
	var row FlightPriceHistory
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	return row.toEntity(), nil
}

// PriceRange returns the min and max reporting price ever observed for a flight
func (r *GormPriceHistoryRepository) PriceRange(ctx context.Context, flightID uint) (*entity.PriceRange, error) {
	var result struct {
		MinPrice *float64
		MaxPrice *float64
	}
	err := r.db.WithContext(ctx).Model(&FlightPriceHistory{}).
		Select("MIN(price_eur) AS min_price, MAX(price_eur) AS max_price").
		Where("flight_id = ?", flightID).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return &entity.PriceRange{
		FlightID: flightID,
		MinPrice: result.MinPrice,
		MaxPrice: result.MaxPrice,
	}, nil
}
