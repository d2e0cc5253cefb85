package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"parking-service/internal/domain/parking"
)

type vehicleRecord struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid"`
	LicensePlate string    `gorm:"not null;uniqueIndex"`
	Size         string    `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (vehicleRecord) TableName() string { return "vehicles" }

type VehicleRepository struct {
	db *gorm.DB
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *parking.Vehicle) error {
	rec := vehicleRecord{
		ID:           vehicle.ID,
		LicensePlate: vehicle.LicensePlate,
		Size:         string(vehicle.Size),
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *VehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*parking.Vehicle, error) {
	var rec vehicleRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return vehicleToDomain(rec), nil
}

func (r *VehicleRepository) FindByLicensePlate(ctx context.Context, licensePlate string) (*parking.Vehicle, error) {
	var rec vehicleRecord
	if err := r.db.WithContext(ctx).First(&rec, "license_plate = ?", licensePlate).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return vehicleToDomain(rec), nil
}

func vehicleToDomain(rec vehicleRecord) *parking.Vehicle {
	return &parking.Vehicle{
		ID:           rec.ID,
		LicensePlate: rec.LicensePlate,
		Size:         parking.SpotSize(rec.Size),
	}
}
