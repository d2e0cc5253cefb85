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

type CreateRateRuleParams struct {
	StartMinute  int
	EndMinute    *int
	PricePerUnit int64
	Unit         parking.RateUnit
}

type CreateRateCardParams struct {
	Name          string
	Currency      string
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	LotID         *uuid.UUID
	FloorID       *uuid.UUID
	Size          *parking.SpotSize
	Rules         []CreateRateRuleParams
}

// AdminService manages the lot inventory and rate cards. Inventory
// writes are single-entity so they run against the plain repositories.
type AdminService struct {
	repos     repository.Repositories
	publisher parking.AvailabilityPublisher
	log       zerolog.Logger
}

func NewAdminService(repos repository.Repositories, publisher parking.AvailabilityPublisher, log zerolog.Logger) *AdminService {
	return &AdminService{repos: repos, publisher: publisher, log: log}
}

func (s *AdminService) CreateLot(ctx context.Context, name, address, timezone string) (*parking.Lot, error) {
	lot, err := parking.NewLot(uuid.New(), name, address, timezone)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Lots.Create(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to create lot: %w", err)
	}
	s.log.Info().Str("lot_id", lot.ID.String()).Str("name", lot.Name).Msg("lot created")
	return lot, nil
}

func (s *AdminService) RenameLot(ctx context.Context, id uuid.UUID, name string) (*parking.Lot, error) {
	lot, err := s.repos.Lots.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lot %s: %w", id, err)
	}
	lot.Rename(name)
	if err := s.repos.Lots.Save(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to save lot %s: %w", id, err)
	}
	return lot, nil
}

func (s *AdminService) SetLotAddress(ctx context.Context, id uuid.UUID, address string) (*parking.Lot, error) {
	lot, err := s.repos.Lots.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lot %s: %w", id, err)
	}
	lot.SetAddress(address)
	if err := s.repos.Lots.Save(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to save lot %s: %w", id, err)
	}
	return lot, nil
}

func (s *AdminService) ChangeLotTimezone(ctx context.Context, id uuid.UUID, timezone string) (*parking.Lot, error) {
	lot, err := s.repos.Lots.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lot %s: %w", id, err)
	}
	if err := lot.ChangeTimezone(timezone); err != nil {
		return nil, err
	}
	if err := s.repos.Lots.Save(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to save lot %s: %w", id, err)
	}
	return lot, nil
}

func (s *AdminService) SetLotMaintenance(ctx context.Context, id uuid.UUID, enabled bool) (*parking.Lot, error) {
	lot, err := s.repos.Lots.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lot %s: %w", id, err)
	}
	if enabled {
		lot.EnableMaintenance()
	} else {
		lot.DisableMaintenance()
	}
	if err := s.repos.Lots.Save(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to save lot %s: %w", id, err)
	}
	s.log.Info().Str("lot_id", id.String()).Bool("maintenance", enabled).Msg("lot maintenance mode changed")
	return lot, nil
}

func (s *AdminService) CreateFloor(ctx context.Context, lotID uuid.UUID, label string, ordering int) (*parking.Floor, error) {
	if _, err := s.repos.Lots.FindByID(ctx, lotID); err != nil {
		return nil, fmt.Errorf("lot %s: %w", lotID, err)
	}
	floor := parking.NewFloor(uuid.New(), lotID, label, ordering)
	if err := s.repos.Floors.Create(ctx, floor); err != nil {
		return nil, fmt.Errorf("failed to create floor: %w", err)
	}
	s.log.Info().Str("floor_id", floor.ID.String()).Str("lot_id", lotID.String()).Str("label", label).Msg("floor created")
	return floor, nil
}

func (s *AdminService) RelabelFloor(ctx context.Context, id uuid.UUID, label string) (*parking.Floor, error) {
	floor, err := s.repos.Floors.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("floor %s: %w", id, err)
	}
	floor.Relabel(label)
	if err := s.repos.Floors.Save(ctx, floor); err != nil {
		return nil, fmt.Errorf("failed to save floor %s: %w", id, err)
	}
	return floor, nil
}

func (s *AdminService) ReorderFloor(ctx context.Context, id uuid.UUID, ordering int) (*parking.Floor, error) {
	floor, err := s.repos.Floors.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("floor %s: %w", id, err)
	}
	floor.Reorder(ordering)
	if err := s.repos.Floors.Save(ctx, floor); err != nil {
		return nil, fmt.Errorf("failed to save floor %s: %w", id, err)
	}
	return floor, nil
}

func (s *AdminService) CreateSpot(ctx context.Context, floorID uuid.UUID, code string, size parking.SpotSize) (*parking.Spot, error) {
	if _, err := s.repos.Floors.FindByID(ctx, floorID); err != nil {
		return nil, fmt.Errorf("floor %s: %w", floorID, err)
	}
	spot := parking.NewSpot(uuid.New(), floorID, code, size)
	if err := s.repos.Spots.Create(ctx, spot); err != nil {
		return nil, fmt.Errorf("failed to create spot: %w", err)
	}
	s.log.Info().Str("spot_id", spot.ID.String()).Str("floor_id", floorID.String()).Str("code", code).Msg("spot created")
	return spot, nil
}

func (s *AdminService) RelabelSpot(ctx context.Context, id uuid.UUID, code string) (*parking.Spot, error) {
	spot, err := s.repos.Spots.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("spot %s: %w", id, err)
	}
	spot.Relabel(code)
	if err := s.repos.Spots.Save(ctx, spot); err != nil {
		return nil, fmt.Errorf("failed to save spot %s: %w", id, err)
	}
	return spot, nil
}

func (s *AdminService) SetSpotOutOfService(ctx context.Context, id uuid.UUID) (*parking.Spot, error) {
	spot, err := s.repos.Spots.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("spot %s: %w", id, err)
	}
	spot.OutOfService()
	if err := s.repos.Spots.Save(ctx, spot); err != nil {
		return nil, fmt.Errorf("failed to save spot %s: %w", id, err)
	}
	s.publishSpotEvent(ctx, parking.EventSpotOutOfService, spot)
	s.log.Warn().Str("spot_id", id.String()).Str("code", spot.Code).Msg("spot taken out of service")
	return spot, nil
}

func (s *AdminService) RestoreSpot(ctx context.Context, id uuid.UUID) (*parking.Spot, error) {
	spot, err := s.repos.Spots.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("spot %s: %w", id, err)
	}
	spot.MarkAvailable()
	if err := s.repos.Spots.Save(ctx, spot); err != nil {
		return nil, fmt.Errorf("failed to save spot %s: %w", id, err)
	}
	s.publishSpotEvent(ctx, parking.EventSpotReleased, spot)
	s.log.Info().Str("spot_id", id.String()).Str("code", spot.Code).Msg("spot restored to service")
	return spot, nil
}

func (s *AdminService) CreateRateCard(ctx context.Context, params CreateRateCardParams) (*parking.RateCard, error) {
	card, err := parking.NewRateCard(uuid.New(), params.Name, params.Currency, params.EffectiveFrom, params.EffectiveTo)
	if err != nil {
		return nil, err
	}
	if params.LotID != nil {
		if _, err := s.repos.Lots.FindByID(ctx, *params.LotID); err != nil {
			return nil, fmt.Errorf("lot %s: %w", *params.LotID, err)
		}
		card.ScopeToLot(*params.LotID)
	}
	if params.FloorID != nil {
		if _, err := s.repos.Floors.FindByID(ctx, *params.FloorID); err != nil {
			return nil, fmt.Errorf("floor %s: %w", *params.FloorID, err)
		}
		card.ScopeToFloor(*params.FloorID)
	}
	if params.Size != nil {
		card.ScopeToSize(*params.Size)
	}
	for _, r := range params.Rules {
		rule, err := parking.NewRateRule(r.StartMinute, r.EndMinute, r.PricePerUnit, r.Unit)
		if err != nil {
			return nil, err
		}
		card.AddRule(rule)
	}
	if err := s.repos.RateCards.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to create rate card: %w", err)
	}
	s.log.Info().Str("rate_card_id", card.ID.String()).Str("name", card.Name).Msg("rate card created")
	return card, nil
}

func (s *AdminService) publishSpotEvent(ctx context.Context, eventType parking.AvailabilityEventType, spot *parking.Spot) {
	floor, err := s.repos.Floors.FindByID(ctx, spot.FloorID)
	if err != nil {
		s.log.Error().Err(err).Str("spot_id", spot.ID.String()).Msg("failed to resolve lot for spot event")
		return
	}
	s.publisher.Publish(ctx, parking.NewSpotEvent(eventType, floor.LotID, spot, time.Now().UTC()))
}
