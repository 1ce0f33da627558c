package repository

import (
	"context"
	"errors"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormFlightRepository implements the FlightRepository interface
type GormFlightRepository struct {
	db *gorm.DB
}

// NewGormFlightRepository creates a new GORM flight repository
func NewGormFlightRepository(db *gorm.DB) repository.FlightRepository {
	return &GormFlightRepository{
		db: db,
	}
}

// Flights GORM model for database mapping
type Flights struct {
	ID                   uint      `gorm:"primaryKey"`
	DepartureDate        time.Time `gorm:"column:departure_date;index;uniqueIndex:idx_flight_identity"`
	Price                float64   `gorm:"column:price"`
	PriceEur             float64   `gorm:"column:price_eur"`
	DepartureAirportCode string    `gorm:"column:departure_airport_code;uniqueIndex:idx_flight_identity"`
	ArrivalAirportCode   string    `gorm:"column:arrival_airport_code;uniqueIndex:idx_flight_identity"`
	AirlineCode          string    `gorm:"column:airline_code;uniqueIndex:idx_flight_identity"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName overrides the default table name
func (Flights) TableName() string {
	return "flights"
}

func (m *Flights) toEntity() *entity.Flight {
	return &entity.Flight{
		ID:                   m.ID,
		DepartureDate:        m.DepartureDate,
		Price:                m.Price,
		PriceEur:             m.PriceEur,
		DepartureAirportCode: m.DepartureAirportCode,
		ArrivalAirportCode:   m.ArrivalAirportCode,
		AirlineCode:          m.AirlineCode,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// GetByID finds a flight by primary key
func (r *GormFlightRepository) GetByID(ctx context.Context, id uint) (*entity.Flight, error) {
	var flight Flights
	result := r.db.WithContext(ctx).First(&flight, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return flight.toEntity(), nil
}

// Find returns flights matching the filter
func (r *GormFlightRepository) Find(ctx context.Context, filter entity.FlightFilter) ([]*entity.Flight, error) {
	query := r.db.WithContext(ctx).Model(&Flights{})

	if len(filter.DepartureAirportCodes) > 0 {
		query = query.Where("departure_airport_code IN ?", filter.DepartureAirportCodes)
	}
	if len(filter.ArrivalAirportCodes) > 0 {
		query = query.Where("arrival_airport_code IN ?", filter.ArrivalAirportCodes)
	}
	if len(filter.AirlineCodes) > 0 {
		query = query.Where("airline_code IN ?", filter.AirlineCodes)
	}
	if filter.StartDate != nil {
		query = query.Where("departure_date::date >= ?", filter.StartDate.Format("2006-01-02"))
	}
	if filter.EndDate != nil {
		query = query.Where("departure_date::date <= ?", filter.EndDate.Format("2006-01-02"))
	}

	var flights []Flights
	if err := query.Order("departure_date").Find(&flights).Error; err != nil {
		return nil, err
	}

	out := make([]*entity.Flight, 0, len(flights))
	for i := range flights {
		out = append(out, flights[i].toEntity())
	}
	return out, nil
}

// FindByIdentity finds a flight by its identity key; nil when absent
func (r *GormFlightRepository) FindByIdentity(ctx context.Context, date time.Time, depCode, arrCode, airlineCode string) (*entity.Flight, error) {
	var flight Flights
	result := r.db.WithContext(ctx).
		Where("departure_date = ? AND departure_airport_code = ? AND arrival_airport_code = ? AND airline_code = ?",
			date, depCode, arrCode, airlineCode).
		First(&flight)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return flight.toEntity(), nil
}

// Create inserts a new flight and backfills the generated ID
func (r *GormFlightRepository) Create(ctx context.Context, flight *entity.Flight) error {
	model := Flights{
		DepartureDate:        flight.DepartureDate,
		Price:                flight.Price,
		PriceEur:             flight.PriceEur,
		DepartureAirportCode: flight.DepartureAirportCode,
		ArrivalAirportCode:   flight.ArrivalAirportCode,
		AirlineCode:          flight.AirlineCode,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	flight.ID = model.ID
	flight.CreatedAt = model.CreatedAt
	flight.UpdatedAt = model.UpdatedAt
	return nil
}

// UpdatePrice mutates the price fields in place
func (r *GormFlightRepository) UpdatePrice(ctx context.Context, id uint, price, priceEur float64) error {
	result := r.db.WithContext(ctx).Model(&Flights{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"price": price, "price_eur": priceEur})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
