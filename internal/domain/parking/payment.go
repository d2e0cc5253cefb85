package parking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "INITIATED"
	PaymentSuccess   PaymentStatus = "SUCCESS"
	PaymentFailed    PaymentStatus = "FAILED"
)

type PaymentMethod string

const (
	MethodCash PaymentMethod = "CASH"
	MethodCard PaymentMethod = "CARD"
	MethodUPI  PaymentMethod = "UPI"
)

// Payment settles exactly one ticket. Amounts are integer minor
// currency units; SUCCESS is terminal.
type Payment struct {
	ID          uuid.UUID
	TicketID    uuid.UUID
	AmountMinor int64
	Currency    string
	Method      PaymentMethod
	Status      PaymentStatus
	Reference   string
	PaidAt      *time.Time
}

func NewPayment(id, ticketID uuid.UUID, amountMinor int64, currency string, method PaymentMethod) (*Payment, error) {
	if amountMinor < 0 {
		return nil, NewBusinessRuleError("invalid_amount", "amountMinor must be >= 0")
	}
	if currency == "" {
		return nil, NewBusinessRuleError("invalid_currency", "currency must not be empty")
	}
	return &Payment{
		ID:          id,
		TicketID:    ticketID,
		AmountMinor: amountMinor,
		Currency:    currency,
		Method:      method,
		Status:      PaymentInitiated,
	}, nil
}

func (p *Payment) Succeed(reference string, paidAt time.Time) error {
	if p.Status == PaymentSuccess {
		return fmt.Errorf("%w: payment %s is already successful", ErrConflict, p.ID)
	}
	p.Reference = reference
	p.PaidAt = &paidAt
	p.Status = PaymentSuccess
	return nil
}

func (p *Payment) Fail() error {
	if p.Status == PaymentSuccess {
		return fmt.Errorf("%w: payment %s is already successful", ErrConflict, p.ID)
	}
	p.Status = PaymentFailed
	return nil
}
