package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"parking-service/internal/domain/parking"
)

type lotRecord struct {
	ID              uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name            string    `gorm:"not null"`
	Address         string
	Timezone        string `gorm:"not null"`
	MaintenanceMode bool   `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (lotRecord) TableName() string { return "lots" }

func (r lotRecord) toDomain() parking.Lot {
	return parking.Lot{
		ID:              r.ID,
		Name:            r.Name,
		Address:         r.Address,
		Timezone:        r.Timezone,
		MaintenanceMode: r.MaintenanceMode,
	}
}

func lotToRecord(l *parking.Lot) lotRecord {
	return lotRecord{
		ID:              l.ID,
		Name:            l.Name,
		Address:         l.Address,
		Timezone:        l.Timezone,
		MaintenanceMode: l.MaintenanceMode,
	}
}

type LotRepository struct {
	db *gorm.DB
}

func (r *LotRepository) Create(ctx context.Context, lot *parking.Lot) error {
	rec := lotToRecord(lot)
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *LotRepository) FindByID(ctx context.Context, id uuid.UUID) (*parking.Lot, error) {
	var rec lotRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	lot := rec.toDomain()
	return &lot, nil
}

func (r *LotRepository) FindAll(ctx context.Context) ([]parking.Lot, error) {
	var recs []lotRecord
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	lots := make([]parking.Lot, 0, len(recs))
	for _, rec := range recs {
		lots = append(lots, rec.toDomain())
	}
	return lots, nil
}

func (r *LotRepository) Save(ctx context.Context, lot *parking.Lot) error {
	rec := lotToRecord(lot)
	return r.db.WithContext(ctx).
		Model(&lotRecord{ID: lot.ID}).
		Select("name", "address", "timezone", "maintenance_mode").
		Updates(&rec).Error
}

func (r *LotRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&lotRecord{}).Count(&count).Error
	return count, err
}
