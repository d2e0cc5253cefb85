package strategy

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking-service/internal/domain/parking"
	"parking-service/internal/repository"
)

type fakeFloorRepo struct {
	repository.FloorRepository
	floors []parking.Floor
}

func (f *fakeFloorRepo) FindByLotIDOrderByOrdering(_ context.Context, lotID uuid.UUID) ([]parking.Floor, error) {
	var out []parking.Floor
	for _, floor := range f.floors {
		if floor.LotID == lotID {
			out = append(out, floor)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordering < out[j].Ordering })
	return out, nil
}

type fakeSpotRepo struct {
	repository.SpotRepository
	spots []parking.Spot
}

func (f *fakeSpotRepo) FindFirstByFloorIDAndSizeAndStatusOrderByCode(_ context.Context, floorID uuid.UUID, size parking.SpotSize, status parking.SpotStatus) (*parking.Spot, error) {
	var candidates []parking.Spot
	for _, spot := range f.spots {
		if spot.FloorID == floorID && spot.Size == size && spot.Status == status {
			candidates = append(candidates, spot)
		}
	}
	if len(candidates) == 0 {
		return nil, parking.ErrNotFound
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Code < candidates[j].Code })
	spot := candidates[0]
	return &spot, nil
}

func TestAllocatePrefersLowestFloorOrdering(t *testing.T) {
	lotID := uuid.New()
	ground := parking.Floor{ID: uuid.New(), LotID: lotID, Label: "G", Ordering: 1}
	basement := parking.Floor{ID: uuid.New(), LotID: lotID, Label: "B1", Ordering: 2}

	groundSpot := *parking.NewSpot(uuid.New(), ground.ID, "G-02", parking.SizeMedium)
	basementSpot := *parking.NewSpot(uuid.New(), basement.ID, "B1-01", parking.SizeMedium)

	allocator := NewEntranceNearestAllocator(
		&fakeFloorRepo{floors: []parking.Floor{basement, ground}},
		&fakeSpotRepo{spots: []parking.Spot{basementSpot, groundSpot}},
		zerolog.Nop())

	result, err := allocator.Allocate(context.Background(), parking.AllocationRequest{
		LotID:       lotID,
		VehicleSize: parking.SizeMedium,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, groundSpot.ID, result.SpotID)
	assert.Equal(t, ground.ID, result.FloorID)
	assert.Equal(t, "nearest_by_floor_order", result.Reason)
	assert.False(t, result.ReservedSpot)
}

func TestAllocateTieBreaksByCode(t *testing.T) {
	lotID := uuid.New()
	floor := parking.Floor{ID: uuid.New(), LotID: lotID, Label: "G", Ordering: 1}

	later := *parking.NewSpot(uuid.New(), floor.ID, "G-10", parking.SizeSmall)
	first := *parking.NewSpot(uuid.New(), floor.ID, "G-01", parking.SizeSmall)

	allocator := NewEntranceNearestAllocator(
		&fakeFloorRepo{floors: []parking.Floor{floor}},
		&fakeSpotRepo{spots: []parking.Spot{later, first}},
		zerolog.Nop())

	result, err := allocator.Allocate(context.Background(), parking.AllocationRequest{
		LotID:       lotID,
		VehicleSize: parking.SizeSmall,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, first.ID, result.SpotID)
}

func TestAllocateSkipsFloorsWithoutExactSize(t *testing.T) {
	lotID := uuid.New()
	ground := parking.Floor{ID: uuid.New(), LotID: lotID, Label: "G", Ordering: 1}
	basement := parking.Floor{ID: uuid.New(), LotID: lotID, Label: "B1", Ordering: 2}

	// A LARGE spot never hosts a MEDIUM request: the match is exact.
	largeOnGround := *parking.NewSpot(uuid.New(), ground.ID, "G-01", parking.SizeLarge)
	mediumBelow := *parking.NewSpot(uuid.New(), basement.ID, "B1-03", parking.SizeMedium)

	allocator := NewEntranceNearestAllocator(
		&fakeFloorRepo{floors: []parking.Floor{ground, basement}},
		&fakeSpotRepo{spots: []parking.Spot{largeOnGround, mediumBelow}},
		zerolog.Nop())

	result, err := allocator.Allocate(context.Background(), parking.AllocationRequest{
		LotID:       lotID,
		VehicleSize: parking.SizeMedium,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, mediumBelow.ID, result.SpotID)
	assert.Equal(t, basement.ID, result.FloorID)
}

func TestAllocateExhausted(t *testing.T) {
	lotID := uuid.New()
	floor := parking.Floor{ID: uuid.New(), LotID: lotID, Label: "G", Ordering: 1}

	occupied := *parking.NewSpot(uuid.New(), floor.ID, "G-01", parking.SizeMedium)
	require.NoError(t, occupied.Occupy())

	allocator := NewEntranceNearestAllocator(
		&fakeFloorRepo{floors: []parking.Floor{floor}},
		&fakeSpotRepo{spots: []parking.Spot{occupied}},
		zerolog.Nop())

	result, err := allocator.Allocate(context.Background(), parking.AllocationRequest{
		LotID:       lotID,
		VehicleSize: parking.SizeMedium,
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}
