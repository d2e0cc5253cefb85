package parking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketOpen   TicketStatus = "OPEN"
	TicketClosed TicketStatus = "CLOSED"
)

// Ticket is one vehicle's parking session. At most one OPEN ticket
// may exist per (vehicle, lot) pair at any time.
type Ticket struct {
	ID        uuid.UUID
	LotID     uuid.UUID
	SpotID    uuid.UUID
	VehicleID uuid.UUID
	EntryAt   time.Time
	ExitAt    *time.Time
	Status    TicketStatus
}

func NewTicket(id, spotID, vehicleID, lotID uuid.UUID, entryAt time.Time) *Ticket {
	return &Ticket{
		ID:        id,
		LotID:     lotID,
		SpotID:    spotID,
		VehicleID: vehicleID,
		EntryAt:   entryAt,
		Status:    TicketOpen,
	}
}

// Close ends the session. A ticket closes once; exitAt must not
// precede entryAt.
func (t *Ticket) Close(exitAt time.Time) error {
	if t.Status == TicketClosed {
		return fmt.Errorf("%w: ticket %s is already closed", ErrConflict, t.ID)
	}
	if exitAt.Before(t.EntryAt) {
		return NewBusinessRuleError("invalid_exit_time", "exit time must be after entry time")
	}
	t.ExitAt = &exitAt
	t.Status = TicketClosed
	return nil
}

func (t *Ticket) IsOpen() bool {
	return t.Status == TicketOpen
}

func (t *Ticket) Duration() time.Duration {
	if t.ExitAt == nil {
		return time.Since(t.EntryAt)
	}
	return t.ExitAt.Sub(t.EntryAt)
}
