package strategy

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"parking-service/internal/domain/parking"
	"parking-service/internal/repository"
)

const reasonNearestByFloorOrder = "nearest_by_floor_order"

// EntranceNearestAllocator scans the lot's floors in ascending ordering
// and picks the first AVAILABLE spot whose size exactly equals the
// requested vehicle size, ties broken by ascending spot code.
//
// The match is deliberately exact rather than using the broader
// Spot.IsCompatible relation; a reservation id in the request is
// accepted but ignored by this variant.
type EntranceNearestAllocator struct {
	floors repository.FloorRepository
	spots  repository.SpotRepository
	log    zerolog.Logger
}

func NewEntranceNearestAllocator(floors repository.FloorRepository, spots repository.SpotRepository, log zerolog.Logger) *EntranceNearestAllocator {
	return &EntranceNearestAllocator{
		floors: floors,
		spots:  spots,
		log:    log,
	}
}

func (a *EntranceNearestAllocator) Allocate(ctx context.Context, req parking.AllocationRequest) (*parking.AllocationResult, error) {
	floors, err := a.floors.FindByLotIDOrderByOrdering(ctx, req.LotID)
	if err != nil {
		return nil, err
	}

	for _, floor := range floors {
		spot, err := a.spots.FindFirstByFloorIDAndSizeAndStatusOrderByCode(
			ctx, floor.ID, req.VehicleSize, parking.SpotAvailable)
		if errors.Is(err, parking.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		a.log.Debug().
			Str("lot_id", req.LotID.String()).
			Str("floor_id", floor.ID.String()).
			Str("spot_code", spot.Code).
			Str("size", string(req.VehicleSize)).
			Msg("allocated nearest spot")

		return &parking.AllocationResult{
			SpotID:       spot.ID,
			FloorID:      floor.ID,
			ReservedSpot: false,
			Reason:       reasonNearestByFloorOrder,
		}, nil
	}

	return nil, nil
}
