package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"parking-service/internal/domain/parking"
	"parking-service/internal/repository"
)

type LotSummary struct {
	LotID           uuid.UUID `json:"lot_id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	Timezone        string    `json:"timezone"`
	MaintenanceMode bool      `json:"maintenance_mode"`
}

type FloorSummary struct {
	FloorID  uuid.UUID `json:"floor_id"`
	Label    string    `json:"label"`
	Ordering int       `json:"ordering"`
}

type SpotSummary struct {
	SpotID  uuid.UUID          `json:"spot_id"`
	FloorID uuid.UUID          `json:"floor_id"`
	Code    string             `json:"code"`
	Size    parking.SpotSize   `json:"size"`
	Status  parking.SpotStatus `json:"status"`
}

type ActiveTicketSummary struct {
	TicketID uuid.UUID        `json:"ticket_id"`
	LotID    uuid.UUID        `json:"lot_id"`
	SpotID   uuid.UUID        `json:"spot_id"`
	SpotCode string           `json:"spot_code"`
	SpotSize parking.SpotSize `json:"spot_size"`
	EntryAt  time.Time        `json:"entry_at"`
}

// QueryService serves read-only projections of the lot inventory and
// open sessions. It reads outside any unit of work.
type QueryService struct {
	repos repository.Repositories
	log   zerolog.Logger
}

func NewQueryService(repos repository.Repositories, log zerolog.Logger) *QueryService {
	return &QueryService{repos: repos, log: log}
}

func (s *QueryService) ListLots(ctx context.Context) ([]LotSummary, error) {
	lots, err := s.repos.Lots.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}

	summaries := make([]LotSummary, 0, len(lots))
	for _, lot := range lots {
		summaries = append(summaries, LotSummary{
			LotID:           lot.ID,
			Name:            lot.Name,
			Address:         lot.Address,
			Timezone:        lot.Timezone,
			MaintenanceMode: lot.MaintenanceMode,
		})
	}
	return summaries, nil
}

func (s *QueryService) ListFloors(ctx context.Context, lotID uuid.UUID) ([]FloorSummary, error) {
	if _, err := s.repos.Lots.FindByID(ctx, lotID); err != nil {
		return nil, fmt.Errorf("lot %s: %w", lotID, err)
	}

	floors, err := s.repos.Floors.FindByLotIDOrderByOrdering(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("failed to list floors for lot %s: %w", lotID, err)
	}

	summaries := make([]FloorSummary, 0, len(floors))
	for _, floor := range floors {
		summaries = append(summaries, FloorSummary{
			FloorID:  floor.ID,
			Label:    floor.Label,
			Ordering: floor.Ordering,
		})
	}
	return summaries, nil
}

func (s *QueryService) ListSpotsByFloor(ctx context.Context, floorID uuid.UUID) ([]SpotSummary, error) {
	if _, err := s.repos.Floors.FindByID(ctx, floorID); err != nil {
		return nil, fmt.Errorf("floor %s: %w", floorID, err)
	}

	spots, err := s.repos.Spots.FindByFloorID(ctx, floorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list spots for floor %s: %w", floorID, err)
	}
	return toSpotSummaries(spots), nil
}

func (s *QueryService) ListAvailableSpotsByFloor(ctx context.Context, floorID uuid.UUID, size parking.SpotSize) ([]SpotSummary, error) {
	if _, err := s.repos.Floors.FindByID(ctx, floorID); err != nil {
		return nil, fmt.Errorf("floor %s: %w", floorID, err)
	}

	spots, err := s.repos.Spots.FindByFloorIDAndSizeAndStatus(ctx, floorID, size, parking.SpotAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to list available spots for floor %s: %w", floorID, err)
	}
	return toSpotSummaries(spots), nil
}

func (s *QueryService) FindActiveTicketByVehicle(ctx context.Context, licensePlate string, lotID uuid.UUID) (*ActiveTicketSummary, error) {
	vehicle, err := s.repos.Vehicles.FindByLicensePlate(ctx, licensePlate)
	if err != nil {
		return nil, fmt.Errorf("vehicle %q: %w", licensePlate, err)
	}

	ticket, err := s.repos.Tickets.FindByVehicleIDAndLotIDAndStatus(
		ctx, vehicle.ID, lotID, parking.TicketOpen)
	if err != nil {
		return nil, fmt.Errorf("active ticket for vehicle %q: %w", licensePlate, err)
	}

	spot, err := s.repos.Spots.FindByID(ctx, ticket.SpotID)
	if err != nil {
		return nil, fmt.Errorf("spot for ticket %s: %w", ticket.ID, err)
	}

	return &ActiveTicketSummary{
		TicketID: ticket.ID,
		LotID:    ticket.LotID,
		SpotID:   spot.ID,
		SpotCode: spot.Code,
		SpotSize: spot.Size,
		EntryAt:  ticket.EntryAt,
	}, nil
}

// LotCount backs the health endpoint: an error means the database is
// unreachable, zero means the inventory was never seeded.
func (s *QueryService) LotCount(ctx context.Context) (int64, error) {
	return s.repos.Lots.Count(ctx)
}

func toSpotSummaries(spots []parking.Spot) []SpotSummary {
	summaries := make([]SpotSummary, 0, len(spots))
	for _, spot := range spots {
		summaries = append(summaries, SpotSummary{
			SpotID:  spot.ID,
			FloorID: spot.FloorID,
			Code:    spot.Code,
			Size:    spot.Size,
			Status:  spot.Status,
		})
	}
	return summaries
}
