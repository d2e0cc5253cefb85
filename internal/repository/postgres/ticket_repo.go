package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"parking-service/internal/domain/parking"
)

type ticketRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	LotID     uuid.UUID `gorm:"type:uuid;not null;index"`
	SpotID    uuid.UUID `gorm:"type:uuid;not null"`
	VehicleID uuid.UUID `gorm:"type:uuid;not null"`
	EntryAt   time.Time `gorm:"not null"`
	ExitAt    *time.Time
	Status    string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ticketRecord) TableName() string { return "tickets" }

func (r ticketRecord) toDomain() parking.Ticket {
	return parking.Ticket{
		ID:        r.ID,
		LotID:     r.LotID,
		SpotID:    r.SpotID,
		VehicleID: r.VehicleID,
		EntryAt:   r.EntryAt,
		ExitAt:    r.ExitAt,
		Status:    parking.TicketStatus(r.Status),
	}
}

type TicketRepository struct {
	db *gorm.DB
}

func (r *TicketRepository) Create(ctx context.Context, ticket *parking.Ticket) error {
	rec := ticketRecord{
		ID:        ticket.ID,
		LotID:     ticket.LotID,
		SpotID:    ticket.SpotID,
		VehicleID: ticket.VehicleID,
		EntryAt:   ticket.EntryAt,
		ExitAt:    ticket.ExitAt,
		Status:    string(ticket.Status),
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *TicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*parking.Ticket, error) {
	var rec ticketRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	ticket := rec.toDomain()
	return &ticket, nil
}

func (r *TicketRepository) FindByVehicleIDAndLotIDAndStatus(ctx context.Context, vehicleID, lotID uuid.UUID, status parking.TicketStatus) (*parking.Ticket, error) {
	var rec ticketRecord
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND lot_id = ? AND status = ?", vehicleID, lotID, string(status)).
		First(&rec).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	ticket := rec.toDomain()
	return &ticket, nil
}

func (r *TicketRepository) Save(ctx context.Context, ticket *parking.Ticket) error {
	return r.db.WithContext(ctx).
		Model(&ticketRecord{ID: ticket.ID}).
		Select("exit_at", "status").
		Updates(map[string]interface{}{
			"exit_at": ticket.ExitAt,
			"status":  string(ticket.Status),
		}).Error
}
