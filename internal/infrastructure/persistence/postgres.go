package persistence

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"flightwatch-service/internal/interface/repository"
)

// NewPostgresDB opens the relational store and migrates the pipeline tables
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&repository.Airports{},
		&repository.Airlines{},
		&repository.Users{},
		&repository.Flights{},
		&repository.FlightPriceHistory{},
		&repository.Subscriptions{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
