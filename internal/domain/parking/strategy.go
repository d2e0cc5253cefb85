package parking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AllocationRequest struct {
	LotID         uuid.UUID
	EntranceID    uuid.UUID
	VehicleSize   SpotSize
	ReservationID *uuid.UUID
	RequestedAt   time.Time
}

type AllocationResult struct {
	SpotID       uuid.UUID
	FloorID      uuid.UUID
	ReservedSpot bool
	Reason       string
}

// SpotAllocator selects a compatible available spot for a check-in
// request. It is a pure decision over current spot state and performs
// no mutation. A (nil, nil) return means no candidate was found.
type SpotAllocator interface {
	Allocate(ctx context.Context, req AllocationRequest) (*AllocationResult, error)
}

type FeeRequest struct {
	LotID    uuid.UUID
	TicketID uuid.UUID
	EntryAt  time.Time
	ExitAt   time.Time
	Currency string
}

type FeeBreakdown struct {
	BaseAmountMinor  int64  `json:"base_amount_minor"`
	DiscountMinor    int64  `json:"discount_minor"`
	PenaltyMinor     int64  `json:"penalty_minor"`
	TotalAmountMinor int64  `json:"total_amount_minor"`
	Description      string `json:"description"`
}

// FeeCalculator prices a completed session from its two timestamps.
type FeeCalculator interface {
	Calculate(req FeeRequest) (FeeBreakdown, error)
}

// AvailabilityPublisher delivers spot status change notifications.
// Implementations must not fail the calling operation.
type AvailabilityPublisher interface {
	Publish(ctx context.Context, event AvailabilityEvent)
}
