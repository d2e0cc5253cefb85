package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"parking-service/internal/domain/parking"
)

type floorRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	LotID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Label     string    `gorm:"not null"`
	Ordering  int       `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (floorRecord) TableName() string { return "floors" }

func (r floorRecord) toDomain() parking.Floor {
	return parking.Floor{
		ID:       r.ID,
		LotID:    r.LotID,
		Label:    r.Label,
		Ordering: r.Ordering,
	}
}

type FloorRepository struct {
	db *gorm.DB
}

func (r *FloorRepository) Create(ctx context.Context, floor *parking.Floor) error {
	rec := floorRecord{
		ID:       floor.ID,
		LotID:    floor.LotID,
		Label:    floor.Label,
		Ordering: floor.Ordering,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *FloorRepository) FindByID(ctx context.Context, id uuid.UUID) (*parking.Floor, error) {
	var rec floorRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	floor := rec.toDomain()
	return &floor, nil
}

func (r *FloorRepository) FindByLotIDOrderByOrdering(ctx context.Context, lotID uuid.UUID) ([]parking.Floor, error) {
	var recs []floorRecord
	err := r.db.WithContext(ctx).
		Where("lot_id = ?", lotID).
		Order("ordering ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	floors := make([]parking.Floor, 0, len(recs))
	for _, rec := range recs {
		floors = append(floors, rec.toDomain())
	}
	return floors, nil
}

func (r *FloorRepository) Save(ctx context.Context, floor *parking.Floor) error {
	return r.db.WithContext(ctx).
		Model(&floorRecord{ID: floor.ID}).
		Select("label", "ordering").
		Updates(&floorRecord{Label: floor.Label, Ordering: floor.Ordering}).Error
}
