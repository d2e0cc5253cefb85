package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"parking-service/internal/domain/parking"
)

type paymentRecord struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	TicketID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	AmountMinor int64     `gorm:"not null"`
	Currency    string    `gorm:"not null"`
	Method      string    `gorm:"not null"`
	Status      string    `gorm:"not null"`
	Reference   string
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (paymentRecord) TableName() string { return "payments" }

type PaymentRepository struct {
	db *gorm.DB
}

func (r *PaymentRepository) Create(ctx context.Context, payment *parking.Payment) error {
	rec := paymentRecord{
		ID:          payment.ID,
		TicketID:    payment.TicketID,
		AmountMinor: payment.AmountMinor,
		Currency:    payment.Currency,
		Method:      string(payment.Method),
		Status:      string(payment.Status),
		Reference:   payment.Reference,
		PaidAt:      payment.PaidAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *PaymentRepository) FindByTicketID(ctx context.Context, ticketID uuid.UUID) (*parking.Payment, error) {
	var rec paymentRecord
	if err := r.db.WithContext(ctx).First(&rec, "ticket_id = ?", ticketID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &parking.Payment{
		ID:          rec.ID,
		TicketID:    rec.TicketID,
		AmountMinor: rec.AmountMinor,
		Currency:    rec.Currency,
		Method:      parking.PaymentMethod(rec.Method),
		Status:      parking.PaymentStatus(rec.Status),
		Reference:   rec.Reference,
		PaidAt:      rec.PaidAt,
	}, nil
}
