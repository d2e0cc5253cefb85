package repository

import (
	"context"

	"github.com/google/uuid"

	"parking-service/internal/domain/parking"
)

// Repositories that fail to find an entity return parking.ErrNotFound,
// so callers can branch with errors.Is regardless of the backing store.

type LotRepository interface {
	Create(ctx context.Context, lot *parking.Lot) error
	FindByID(ctx context.Context, id uuid.UUID) (*parking.Lot, error)
	FindAll(ctx context.Context) ([]parking.Lot, error)
	Save(ctx context.Context, lot *parking.Lot) error
	Count(ctx context.Context) (int64, error)
}

type FloorRepository interface {
	Create(ctx context.Context, floor *parking.Floor) error
	FindByID(ctx context.Context, id uuid.UUID) (*parking.Floor, error)
	FindByLotIDOrderByOrdering(ctx context.Context, lotID uuid.UUID) ([]parking.Floor, error)
	Save(ctx context.Context, floor *parking.Floor) error
}

type SpotRepository interface {
	Create(ctx context.Context, spot *parking.Spot) error
	FindByID(ctx context.Context, id uuid.UUID) (*parking.Spot, error)
	FindByFloorID(ctx context.Context, floorID uuid.UUID) ([]parking.Spot, error)
	FindByFloorIDAndSizeAndStatus(ctx context.Context, floorID uuid.UUID, size parking.SpotSize, status parking.SpotStatus) ([]parking.Spot, error)
	// FindFirstByFloorIDAndSizeAndStatusOrderByCode returns the candidate
	// with the lexicographically smallest code, or parking.ErrNotFound.
	FindFirstByFloorIDAndSizeAndStatusOrderByCode(ctx context.Context, floorID uuid.UUID, size parking.SpotSize, status parking.SpotStatus) (*parking.Spot, error)
	Save(ctx context.Context, spot *parking.Spot) error
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *parking.Vehicle) error
	FindByID(ctx context.Context, id uuid.UUID) (*parking.Vehicle, error)
	FindByLicensePlate(ctx context.Context, licensePlate string) (*parking.Vehicle, error)
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *parking.Ticket) error
	FindByID(ctx context.Context, id uuid.UUID) (*parking.Ticket, error)
	FindByVehicleIDAndLotIDAndStatus(ctx context.Context, vehicleID, lotID uuid.UUID, status parking.TicketStatus) (*parking.Ticket, error)
	Save(ctx context.Context, ticket *parking.Ticket) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *parking.Payment) error
	FindByTicketID(ctx context.Context, ticketID uuid.UUID) (*parking.Payment, error)
}

type RateCardRepository interface {
	Create(ctx context.Context, card *parking.RateCard) error
	FindByID(ctx context.Context, id uuid.UUID) (*parking.RateCard, error)
	FindByLotID(ctx context.Context, lotID uuid.UUID) ([]parking.RateCard, error)
}

// AvailabilityEventRepository persists published events for downstream
// consumers. Appends are best-effort and happen outside the session
// transaction.
type AvailabilityEventRepository interface {
	Append(ctx context.Context, event parking.AvailabilityEvent) error
}

type Repositories struct {
	Lots      LotRepository
	Floors    FloorRepository
	Spots     SpotRepository
	Vehicles  VehicleRepository
	Tickets   TicketRepository
	Payments  PaymentRepository
	RateCards RateCardRepository
	Events    AvailabilityEventRepository
}

// UnitOfWork runs fn against transaction-bound repositories: every
// write inside fn commits together or not at all.
type UnitOfWork interface {
	InTransaction(ctx context.Context, fn func(r Repositories) error) error
}
