package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"parking-service/internal/domain/parking"
	"parking-service/internal/observability"
	"parking-service/internal/repository"
)

type CheckInCommand struct {
	LotID         uuid.UUID
	EntranceID    uuid.UUID
	LicensePlate  string
	VehicleSize   parking.SpotSize
	ReservationID *uuid.UUID
	RequestedAt   time.Time
}

type CheckInResult struct {
	TicketID uuid.UUID        `json:"ticket_id"`
	SpotID   uuid.UUID        `json:"spot_id"`
	FloorID  uuid.UUID        `json:"floor_id"`
	SpotCode string           `json:"spot_code"`
	SpotSize parking.SpotSize `json:"spot_size"`
	EntryAt  time.Time        `json:"entry_at"`
}

type CheckOutCommand struct {
	LotID    uuid.UUID
	TicketID uuid.UUID
	ExitAt   time.Time
}

type CheckOutResult struct {
	TicketID    uuid.UUID `json:"ticket_id"`
	PaymentID   uuid.UUID `json:"payment_id"`
	AmountMinor int64     `json:"amount_minor"`
	Currency    string    `json:"currency"`
	EntryAt     time.Time `json:"entry_at"`
	ExitAt      time.Time `json:"exit_at"`
}

// SessionService orchestrates the parking session lifecycle. Each
// operation runs as one unit-of-work transaction; availability events
// and metric increments happen after commit and are fire-and-forget.
type SessionService struct {
	uow       repository.UnitOfWork
	allocator parking.SpotAllocator
	fees      parking.FeeCalculator
	publisher parking.AvailabilityPublisher
	metrics   *observability.Metrics
	currency  string
	log       zerolog.Logger
}

func NewSessionService(
	uow repository.UnitOfWork,
	allocator parking.SpotAllocator,
	fees parking.FeeCalculator,
	publisher parking.AvailabilityPublisher,
	metrics *observability.Metrics,
	currency string,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		uow:       uow,
		allocator: allocator,
		fees:      fees,
		publisher: publisher,
		metrics:   metrics,
		currency:  currency,
		log:       log,
	}
}

func (s *SessionService) CheckIn(ctx context.Context, cmd CheckInCommand) (*CheckInResult, error) {
	s.log.Info().
		Str("lot_id", cmd.LotID.String()).
		Str("entrance_id", cmd.EntranceID.String()).
		Str("plate", cmd.LicensePlate).
		Str("size", string(cmd.VehicleSize)).
		Msg("check-in started")

	var (
		ticket *parking.Ticket
		spot   *parking.Spot
	)

	err := s.uow.InTransaction(ctx, func(r repository.Repositories) error {
		lot, err := r.Lots.FindByID(ctx, cmd.LotID)
		if err != nil {
			return fmt.Errorf("lot %s: %w", cmd.LotID, err)
		}

		vehicle, err := r.Vehicles.FindByLicensePlate(ctx, cmd.LicensePlate)
		if errors.Is(err, parking.ErrNotFound) {
			vehicle = parking.NewVehicle(uuid.New(), cmd.LicensePlate, cmd.VehicleSize)
			if err := r.Vehicles.Create(ctx, vehicle); err != nil {
				return fmt.Errorf("failed to register vehicle: %w", err)
			}
			s.log.Debug().
				Str("vehicle_id", vehicle.ID.String()).
				Str("plate", vehicle.LicensePlate).
				Msg("registered new vehicle")
		} else if err != nil {
			return err
		}

		// Pre-check only; the partial unique index on tickets is the
		// real guard under concurrent check-ins.
		existing, err := r.Tickets.FindByVehicleIDAndLotIDAndStatus(
			ctx, vehicle.ID, lot.ID, parking.TicketOpen)
		if err != nil && !errors.Is(err, parking.ErrNotFound) {
			return err
		}
		if existing != nil {
			s.metrics.OnCheckInConflict()
			s.log.Warn().
				Str("ticket_id", existing.ID.String()).
				Str("lot_id", lot.ID.String()).
				Str("plate", cmd.LicensePlate).
				Msg("check-in rejected: existing open ticket")
			return fmt.Errorf("%w: vehicle already has an active ticket in this lot", parking.ErrConflict)
		}

		allocation, err := s.allocator.Allocate(ctx, parking.AllocationRequest{
			LotID:         cmd.LotID,
			EntranceID:    cmd.EntranceID,
			VehicleSize:   cmd.VehicleSize,
			ReservationID: cmd.ReservationID,
			RequestedAt:   cmd.RequestedAt,
		})
		if err != nil {
			return fmt.Errorf("allocation failed: %w", err)
		}
		if allocation == nil {
			s.log.Info().
				Str("lot_id", cmd.LotID.String()).
				Str("plate", cmd.LicensePlate).
				Str("size", string(cmd.VehicleSize)).
				Msg("no suitable spot available")
			return parking.NewBusinessRuleError("no_spot_available", "no suitable spot available")
		}

		allocated, err := r.Spots.FindByID(ctx, allocation.SpotID)
		if err != nil {
			return fmt.Errorf("allocated spot %s: %w", allocation.SpotID, err)
		}
		if err := allocated.Occupy(); err != nil {
			return err
		}
		if err := r.Spots.Save(ctx, allocated); err != nil {
			return err
		}

		created := parking.NewTicket(uuid.New(), allocated.ID, vehicle.ID, lot.ID, cmd.RequestedAt)
		if err := r.Tickets.Create(ctx, created); err != nil {
			return err
		}

		ticket, spot = created, allocated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OnCheckInSuccess()
	s.publisher.Publish(ctx, parking.NewSpotEvent(
		parking.EventSpotOccupied, ticket.LotID, spot, ticket.EntryAt))

	s.log.Info().
		Str("ticket_id", ticket.ID.String()).
		Str("lot_id", ticket.LotID.String()).
		Str("spot_id", spot.ID.String()).
		Str("spot_code", spot.Code).
		Str("plate", cmd.LicensePlate).
		Msg("check-in success")

	return &CheckInResult{
		TicketID: ticket.ID,
		SpotID:   spot.ID,
		FloorID:  spot.FloorID,
		SpotCode: spot.Code,
		SpotSize: spot.Size,
		EntryAt:  ticket.EntryAt,
	}, nil
}

func (s *SessionService) CheckOut(ctx context.Context, cmd CheckOutCommand) (*CheckOutResult, error) {
	s.log.Info().
		Str("lot_id", cmd.LotID.String()).
		Str("ticket_id", cmd.TicketID.String()).
		Msg("check-out started")

	var (
		ticket  *parking.Ticket
		spot    *parking.Spot
		payment *parking.Payment
	)

	err := s.uow.InTransaction(ctx, func(r repository.Repositories) error {
		t, err := r.Tickets.FindByID(ctx, cmd.TicketID)
		if err != nil {
			return fmt.Errorf("ticket %s: %w", cmd.TicketID, err)
		}
		if !t.IsOpen() {
			s.log.Warn().
				Str("ticket_id", t.ID.String()).
				Str("status", string(t.Status)).
				Msg("check-out rejected: ticket already closed")
			return parking.NewBusinessRuleError("ticket_closed", "ticket already closed")
		}

		if err := t.Close(cmd.ExitAt); err != nil {
			return err
		}
		if err := r.Tickets.Save(ctx, t); err != nil {
			return err
		}

		freed, err := r.Spots.FindByID(ctx, t.SpotID)
		if err != nil {
			return fmt.Errorf("spot for ticket %s: %w", t.ID, err)
		}
		freed.MarkAvailable()
		if err := r.Spots.Save(ctx, freed); err != nil {
			return err
		}

		breakdown, err := s.fees.Calculate(parking.FeeRequest{
			LotID:    t.LotID,
			TicketID: t.ID,
			EntryAt:  t.EntryAt,
			ExitAt:   cmd.ExitAt,
			Currency: s.currency,
		})
		if err != nil {
			return err
		}

		p, err := parking.NewPayment(uuid.New(), t.ID, breakdown.TotalAmountMinor, s.currency, parking.MethodCash)
		if err != nil {
			return err
		}
		// Synchronous settlement: no payment gateway in this design.
		if err := p.Succeed("PAY-"+t.ID.String(), cmd.ExitAt); err != nil {
			return err
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}

		ticket, spot, payment = t, freed, p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OnCheckOutSuccess()
	s.publisher.Publish(ctx, parking.NewSpotEvent(
		parking.EventSpotReleased, ticket.LotID, spot, cmd.ExitAt))

	s.log.Info().
		Str("ticket_id", ticket.ID.String()).
		Str("lot_id", ticket.LotID.String()).
		Str("spot_id", spot.ID.String()).
		Int64("amount_minor", payment.AmountMinor).
		Str("currency", payment.Currency).
		Msg("check-out success")

	return &CheckOutResult{
		TicketID:    ticket.ID,
		PaymentID:   payment.ID,
		AmountMinor: payment.AmountMinor,
		Currency:    payment.Currency,
		EntryAt:     ticket.EntryAt,
		ExitAt:      cmd.ExitAt,
	}, nil
}
