package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking-service/internal/domain/parking"
	"parking-service/internal/repository"
)

func (m *memLotRepo) FindAll(_ context.Context) ([]parking.Lot, error) {
	var out []parking.Lot
	for _, lot := range m.lots {
		out = append(out, *lot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memLotRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.lots)), nil
}

type memFloorRepo struct {
	repository.FloorRepository
	floors map[uuid.UUID]*parking.Floor
}

func (m *memFloorRepo) FindByID(_ context.Context, id uuid.UUID) (*parking.Floor, error) {
	floor, ok := m.floors[id]
	if !ok {
		return nil, parking.ErrNotFound
	}
	copied := *floor
	return &copied, nil
}

func (m *memFloorRepo) FindByLotIDOrderByOrdering(_ context.Context, lotID uuid.UUID) ([]parking.Floor, error) {
	var out []parking.Floor
	for _, floor := range m.floors {
		if floor.LotID == lotID {
			out = append(out, *floor)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordering < out[j].Ordering })
	return out, nil
}

func (m *memSpotRepo) FindByFloorID(_ context.Context, floorID uuid.UUID) ([]parking.Spot, error) {
	return m.byFloor(floorID, nil, nil), nil
}

func (m *memSpotRepo) FindByFloorIDAndSizeAndStatus(_ context.Context, floorID uuid.UUID, size parking.SpotSize, status parking.SpotStatus) ([]parking.Spot, error) {
	return m.byFloor(floorID, &size, &status), nil
}

func (m *memSpotRepo) byFloor(floorID uuid.UUID, size *parking.SpotSize, status *parking.SpotStatus) []parking.Spot {
	var out []parking.Spot
	for _, spot := range m.spots {
		if spot.FloorID != floorID {
			continue
		}
		if size != nil && spot.Size != *size {
			continue
		}
		if status != nil && spot.Status != *status {
			continue
		}
		out = append(out, *spot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func newQueryFixture(t *testing.T) (*QueryService, *parking.Lot, *parking.Floor, *memSpotRepo, *memTicketRepo, *memVehicleRepo) {
	t.Helper()

	lot, err := parking.NewLot(uuid.New(), "Central Plaza", "1 Plaza Road", "UTC")
	require.NoError(t, err)
	floor := parking.NewFloor(uuid.New(), lot.ID, "G", 1)

	spots := &memSpotRepo{spots: map[uuid.UUID]*parking.Spot{}}
	for _, s := range []*parking.Spot{
		parking.NewSpot(uuid.New(), floor.ID, "G-01", parking.SizeMedium),
		parking.NewSpot(uuid.New(), floor.ID, "G-02", parking.SizeMedium),
		parking.NewSpot(uuid.New(), floor.ID, "G-03", parking.SizeLarge),
	} {
		spots.spots[s.ID] = s
	}

	tickets := &memTicketRepo{tickets: map[uuid.UUID]*parking.Ticket{}}
	vehicles := &memVehicleRepo{vehicles: map[uuid.UUID]*parking.Vehicle{}}

	repos := repository.Repositories{
		Lots:     &memLotRepo{lots: map[uuid.UUID]*parking.Lot{lot.ID: lot}},
		Floors:   &memFloorRepo{floors: map[uuid.UUID]*parking.Floor{floor.ID: floor}},
		Spots:    spots,
		Tickets:  tickets,
		Vehicles: vehicles,
	}
	return NewQueryService(repos, zerolog.Nop()), lot, floor, spots, tickets, vehicles
}

func TestListLotsAndFloors(t *testing.T) {
	svc, lot, floor, _, _, _ := newQueryFixture(t)

	lots, err := svc.ListLots(context.Background())
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, lot.ID, lots[0].LotID)
	assert.Equal(t, "Central Plaza", lots[0].Name)

	floors, err := svc.ListFloors(context.Background(), lot.ID)
	require.NoError(t, err)
	require.Len(t, floors, 1)
	assert.Equal(t, floor.ID, floors[0].FloorID)

	_, err = svc.ListFloors(context.Background(), uuid.New())
	assert.ErrorIs(t, err, parking.ErrNotFound)
}

func TestListSpotsByFloor(t *testing.T) {
	svc, _, floor, spots, _, _ := newQueryFixture(t)

	all, err := svc.ListSpotsByFloor(context.Background(), floor.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "G-01", all[0].Code)

	// Occupy one of the mediums; the available filter drops it.
	for _, s := range spots.spots {
		if s.Code == "G-01" {
			require.NoError(t, s.Occupy())
		}
	}
	available, err := svc.ListAvailableSpotsByFloor(context.Background(), floor.ID, parking.SizeMedium)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "G-02", available[0].Code)
}

func TestFindActiveTicketByVehicle(t *testing.T) {
	svc, lot, _, spots, tickets, vehicles := newQueryFixture(t)

	vehicle := parking.NewVehicle(uuid.New(), "KA-01-AB-1234", parking.SizeMedium)
	require.NoError(t, vehicles.Create(context.Background(), vehicle))

	var spot *parking.Spot
	for _, s := range spots.spots {
		if s.Code == "G-01" {
			spot = s
		}
	}
	require.NotNil(t, spot)

	t.Run("no active ticket", func(t *testing.T) {
		_, err := svc.FindActiveTicketByVehicle(context.Background(), "KA-01-AB-1234", lot.ID)
		assert.ErrorIs(t, err, parking.ErrNotFound)
	})

	entry := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	ticket := parking.NewTicket(uuid.New(), spot.ID, vehicle.ID, lot.ID, entry)
	require.NoError(t, tickets.Create(context.Background(), ticket))

	t.Run("open ticket found", func(t *testing.T) {
		summary, err := svc.FindActiveTicketByVehicle(context.Background(), "KA-01-AB-1234", lot.ID)
		require.NoError(t, err)
		assert.Equal(t, ticket.ID, summary.TicketID)
		assert.Equal(t, spot.ID, summary.SpotID)
		assert.Equal(t, "G-01", summary.SpotCode)
		assert.Equal(t, entry, summary.EntryAt)
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		_, err := svc.FindActiveTicketByVehicle(context.Background(), "ZZ-99-XX-0000", lot.ID)
		assert.ErrorIs(t, err, parking.ErrNotFound)
	})
}
