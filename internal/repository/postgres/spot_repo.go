package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"parking-service/internal/domain/parking"
)

type spotRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	FloorID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Code      string    `gorm:"not null"`
	Size      string    `gorm:"not null"`
	Status    string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (spotRecord) TableName() string { return "spots" }

func (r spotRecord) toDomain() parking.Spot {
	return parking.Spot{
		ID:      r.ID,
		FloorID: r.FloorID,
		Code:    r.Code,
		Size:    parking.SpotSize(r.Size),
		Status:  parking.SpotStatus(r.Status),
	}
}

type SpotRepository struct {
	db *gorm.DB
}

func (r *SpotRepository) Create(ctx context.Context, spot *parking.Spot) error {
	rec := spotRecord{
		ID:      spot.ID,
		FloorID: spot.FloorID,
		Code:    spot.Code,
		Size:    string(spot.Size),
		Status:  string(spot.Status),
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *SpotRepository) FindByID(ctx context.Context, id uuid.UUID) (*parking.Spot, error) {
	var rec spotRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	spot := rec.toDomain()
	return &spot, nil
}

func (r *SpotRepository) FindByFloorID(ctx context.Context, floorID uuid.UUID) ([]parking.Spot, error) {
	var recs []spotRecord
	err := r.db.WithContext(ctx).
		Where("floor_id = ?", floorID).
		Order("code ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return spotsToDomain(recs), nil
}

func (r *SpotRepository) FindByFloorIDAndSizeAndStatus(ctx context.Context, floorID uuid.UUID, size parking.SpotSize, status parking.SpotStatus) ([]parking.Spot, error) {
	var recs []spotRecord
	err := r.db.WithContext(ctx).
		Where("floor_id = ? AND size = ? AND status = ?", floorID, string(size), string(status)).
		Order("code ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return spotsToDomain(recs), nil
}

func (r *SpotRepository) FindFirstByFloorIDAndSizeAndStatusOrderByCode(ctx context.Context, floorID uuid.UUID, size parking.SpotSize, status parking.SpotStatus) (*parking.Spot, error) {
	var rec spotRecord
	err := r.db.WithContext(ctx).
		Where("floor_id = ? AND size = ? AND status = ?", floorID, string(size), string(status)).
		Order("code ASC").
		First(&rec).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	spot := rec.toDomain()
	return &spot, nil
}

func (r *SpotRepository) Save(ctx context.Context, spot *parking.Spot) error {
	return r.db.WithContext(ctx).
		Model(&spotRecord{ID: spot.ID}).
		Select("code", "status").
		Updates(&spotRecord{Code: spot.Code, Status: string(spot.Status)}).Error
}

func spotsToDomain(recs []spotRecord) []parking.Spot {
	spots := make([]parking.Spot, 0, len(recs))
	for _, rec := range recs {
		spots = append(spots, rec.toDomain())
	}
	return spots
}
