package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"parking-service/internal/domain/parking"
)

type availabilityEventRecord struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Type       string    `gorm:"not null"`
	LotID      uuid.UUID `gorm:"type:uuid;not null;index"`
	FloorID    uuid.UUID `gorm:"type:uuid;not null"`
	SpotID     uuid.UUID `gorm:"type:uuid;not null"`
	Payload    datatypes.JSON
	OccurredAt time.Time `gorm:"not null"`
	CreatedAt  time.Time
}

func (availabilityEventRecord) TableName() string { return "availability_events" }

type AvailabilityEventRepository struct {
	db *gorm.DB
}

func (r *AvailabilityEventRepository) Append(ctx context.Context, event parking.AvailabilityEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	rec := availabilityEventRecord{
		Type:       string(event.Type),
		LotID:      event.LotID,
		FloorID:    event.FloorID,
		SpotID:     event.SpotID,
		Payload:    datatypes.JSON(payload),
		OccurredAt: event.OccurredAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}
