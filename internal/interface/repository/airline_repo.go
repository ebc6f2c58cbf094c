package repository

import (
	"context"
	"errors"
	"fmt"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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
	gorm.Model
	Code         string `gorm:"column:code;size:3;uniqueIndex"`
	IcaoCode     string `gorm:"column:icao_code;size:4"`
	BusinessName string `gorm:"column:business_name"`
	CommonName   string `gorm:"column:common_name"`
	Name         string `gorm:"column:name"`
}

// TableName overrides the default table name
func (Airlines) TableName() string {
	return "m_airlines"
}

// MigrateAirlines creates or updates the m_airlines table
func MigrateAirlines(db *gorm.DB) error {
	return db.AutoMigrate(&Airlines{})
}

// GetByCode finds an airline by code
func (r *GormAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	var airline Airlines
	result := r.db.WithContext(ctx).Where("code = ?", code).First(&airline)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get airline %s: %w", code, result.Error)
	}

	airlineEntity := airline.toEntity()
	return &airlineEntity, nil
}

// Save inserts an airline or refreshes the names stored for its code
func (r *GormAirlineRepository) Save(ctx context.Context, airline *entity.Airline) error {
	model := airlineModel(airline)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"icao_code", "business_name", "common_name", "name", "updated_at"}),
	}).Create(&model)

	if result.Error != nil {
		return fmt.Errorf("failed to save airline %s: %w", airline.Code, result.Error)
	}
	airline.ID = model.ID
	return nil
}

func (a Airlines) toEntity() entity.Airline {
	return entity.Airline{
		ID:           a.ID,
		Code:         a.Code,
		IcaoCode:     a.IcaoCode,
		BusinessName: a.BusinessName,
		CommonName:   a.CommonName,
		Name:         a.Name,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func airlineModel(a *entity.Airline) Airlines {
	return Airlines{
		Code:         a.Code,
		IcaoCode:     a.IcaoCode,
		BusinessName: a.BusinessName,
		CommonName:   a.CommonName,
		Name:         a.Name,
	}
}
