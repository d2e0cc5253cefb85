package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking-service/internal/domain/parking"
	"parking-service/internal/observability"
	"parking-service/internal/repository"
	"parking-service/internal/strategy"
)

type memLotRepo struct {
	repository.LotRepository
	lots map[uuid.UUID]*parking.Lot
}

func (m *memLotRepo) FindByID(_ context.Context, id uuid.UUID) (*parking.Lot, error) {
	lot, ok := m.lots[id]
	if !ok {
		return nil, parking.ErrNotFound
	}
	copied := *lot
	return &copied, nil
}

type memVehicleRepo struct {
	repository.VehicleRepository
	vehicles map[uuid.UUID]*parking.Vehicle
}

func (m *memVehicleRepo) Create(_ context.Context, v *parking.Vehicle) error {
	copied := *v
	m.vehicles[v.ID] = &copied
	return nil
}

func (m *memVehicleRepo) FindByLicensePlate(_ context.Context, plate string) (*parking.Vehicle, error) {
	for _, v := range m.vehicles {
		if v.LicensePlate == plate {
			copied := *v
			return &copied, nil
		}
	}
	return nil, parking.ErrNotFound
}

type memSpotRepo struct {
	repository.SpotRepository
	spots map[uuid.UUID]*parking.Spot
}

func (m *memSpotRepo) FindByID(_ context.Context, id uuid.UUID) (*parking.Spot, error) {
	spot, ok := m.spots[id]
	if !ok {
		return nil, parking.ErrNotFound
	}
	copied := *spot
	return &copied, nil
}

func (m *memSpotRepo) Save(_ context.Context, spot *parking.Spot) error {
	copied := *spot
	m.spots[spot.ID] = &copied
	return nil
}

type memTicketRepo struct {
	repository.TicketRepository
	tickets map[uuid.UUID]*parking.Ticket
}

func (m *memTicketRepo) Create(_ context.Context, t *parking.Ticket) error {
	copied := *t
	m.tickets[t.ID] = &copied
	return nil
}

func (m *memTicketRepo) FindByID(_ context.Context, id uuid.UUID) (*parking.Ticket, error) {
	ticket, ok := m.tickets[id]
	if !ok {
		return nil, parking.ErrNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (m *memTicketRepo) FindByVehicleIDAndLotIDAndStatus(_ context.Context, vehicleID, lotID uuid.UUID, status parking.TicketStatus) (*parking.Ticket, error) {
	for _, t := range m.tickets {
		if t.VehicleID == vehicleID && t.LotID == lotID && t.Status == status {
			copied := *t
			return &copied, nil
		}
	}
	return nil, parking.ErrNotFound
}

func (m *memTicketRepo) Save(_ context.Context, t *parking.Ticket) error {
	copied := *t
	m.tickets[t.ID] = &copied
	return nil
}

type memPaymentRepo struct {
	repository.PaymentRepository
	payments map[uuid.UUID]*parking.Payment
}

func (m *memPaymentRepo) Create(_ context.Context, p *parking.Payment) error {
	copied := *p
	m.payments[p.ID] = &copied
	return nil
}

// fakeUnitOfWork runs fn directly against the in-memory repositories.
type fakeUnitOfWork struct {
	repos repository.Repositories
}

func (f *fakeUnitOfWork) InTransaction(_ context.Context, fn func(r repository.Repositories) error) error {
	return fn(f.repos)
}

type stubAllocator struct {
	result *parking.AllocationResult
}

func (a *stubAllocator) Allocate(_ context.Context, _ parking.AllocationRequest) (*parking.AllocationResult, error) {
	return a.result, nil
}

type capturingPublisher struct {
	events []parking.AvailabilityEvent
}

func (p *capturingPublisher) Publish(_ context.Context, event parking.AvailabilityEvent) {
	p.events = append(p.events, event)
}

type sessionFixture struct {
	service   *SessionService
	metrics   *observability.Metrics
	publisher *capturingPublisher
	lot       *parking.Lot
	spot      *parking.Spot
	spots     *memSpotRepo
	tickets   *memTicketRepo
	payments  *memPaymentRepo
}

func newSessionFixture(t *testing.T, allocation *parking.AllocationResult) *sessionFixture {
	t.Helper()

	lot, err := parking.NewLot(uuid.New(), "Central Plaza", "1 Main St", "UTC")
	require.NoError(t, err)
	floorID := uuid.New()
	spot := parking.NewSpot(uuid.New(), floorID, "G-01", parking.SizeMedium)

	lots := &memLotRepo{lots: map[uuid.UUID]*parking.Lot{lot.ID: lot}}
	vehicles := &memVehicleRepo{vehicles: map[uuid.UUID]*parking.Vehicle{}}
	spots := &memSpotRepo{spots: map[uuid.UUID]*parking.Spot{spot.ID: spot}}
	tickets := &memTicketRepo{tickets: map[uuid.UUID]*parking.Ticket{}}
	payments := &memPaymentRepo{payments: map[uuid.UUID]*parking.Payment{}}

	repos := repository.Repositories{
		Lots:     lots,
		Vehicles: vehicles,
		Spots:    spots,
		Tickets:  tickets,
		Payments: payments,
	}

	if allocation == nil {
		allocation = &parking.AllocationResult{
			SpotID:  spot.ID,
			FloorID: floorID,
			Reason:  "nearest_by_floor_order",
		}
	}

	metrics := observability.NewMetrics()
	publisher := &capturingPublisher{}
	svc := NewSessionService(
		&fakeUnitOfWork{repos: repos},
		&stubAllocator{result: allocation},
		strategy.NewDegressiveFeeCalculator(strategy.DefaultFeeConfig()),
		publisher,
		metrics,
		"INR",
		zerolog.Nop())

	return &sessionFixture{
		service:   svc,
		metrics:   metrics,
		publisher: publisher,
		lot:       lot,
		spot:      spot,
		spots:     spots,
		tickets:   tickets,
		payments:  payments,
	}
}

func (f *sessionFixture) checkIn(t *testing.T, at time.Time) *CheckInResult {
	t.Helper()
	result, err := f.service.CheckIn(context.Background(), CheckInCommand{
		LotID:        f.lot.ID,
		LicensePlate: "KA-01-AB-1234",
		VehicleSize:  parking.SizeMedium,
		RequestedAt:  at,
	})
	require.NoError(t, err)
	return result
}

func TestCheckIn(t *testing.T) {
	f := newSessionFixture(t, nil)
	entry := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	result := f.checkIn(t, entry)
	assert.Equal(t, f.spot.ID, result.SpotID)
	assert.Equal(t, "G-01", result.SpotCode)
	assert.Equal(t, parking.SizeMedium, result.SpotSize)
	assert.Equal(t, entry, result.EntryAt)

	stored, err := f.spots.FindByID(context.Background(), f.spot.ID)
	require.NoError(t, err)
	assert.Equal(t, parking.SpotOccupied, stored.Status)

	ticket, err := f.tickets.FindByID(context.Background(), result.TicketID)
	require.NoError(t, err)
	assert.True(t, ticket.IsOpen())

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, parking.EventSpotOccupied, f.publisher.events[0].Type)
	assert.Equal(t, int64(1), f.metrics.Snapshot().CheckInsTotal)
}

func TestCheckInDuplicateOpenTicket(t *testing.T) {
	f := newSessionFixture(t, nil)
	entry := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	f.checkIn(t, entry)

	_, err := f.service.CheckIn(context.Background(), CheckInCommand{
		LotID:        f.lot.ID,
		LicensePlate: "KA-01-AB-1234",
		VehicleSize:  parking.SizeMedium,
		RequestedAt:  entry.Add(time.Minute),
	})
	assert.ErrorIs(t, err, parking.ErrConflict)
	assert.Equal(t, int64(1), f.metrics.Snapshot().CheckInConflictsTotal)
}

func TestCheckInNoSpotAvailable(t *testing.T) {
	f := newSessionFixture(t, nil)
	f.service.allocator = &stubAllocator{result: nil}

	_, err := f.service.CheckIn(context.Background(), CheckInCommand{
		LotID:        f.lot.ID,
		LicensePlate: "KA-01-AB-1234",
		VehicleSize:  parking.SizeMedium,
		RequestedAt:  time.Now().UTC(),
	})
	var ruleErr *parking.BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "no_spot_available", ruleErr.Code)
}

func TestCheckInUnknownLot(t *testing.T) {
	f := newSessionFixture(t, nil)

	_, err := f.service.CheckIn(context.Background(), CheckInCommand{
		LotID:        uuid.New(),
		LicensePlate: "KA-01-AB-1234",
		VehicleSize:  parking.SizeMedium,
		RequestedAt:  time.Now().UTC(),
	})
	assert.ErrorIs(t, err, parking.ErrNotFound)
}

func TestCheckOut(t *testing.T) {
	f := newSessionFixture(t, nil)
	entry := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	checkedIn := f.checkIn(t, entry)

	exit := entry.Add(70 * time.Minute)
	result, err := f.service.CheckOut(context.Background(), CheckOutCommand{
		LotID:    f.lot.ID,
		TicketID: checkedIn.TicketID,
		ExitAt:   exit,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4000), result.AmountMinor)
	assert.Equal(t, "INR", result.Currency)
	assert.Equal(t, exit, result.ExitAt)

	ticket, err := f.tickets.FindByID(context.Background(), checkedIn.TicketID)
	require.NoError(t, err)
	assert.Equal(t, parking.TicketClosed, ticket.Status)

	spot, err := f.spots.FindByID(context.Background(), f.spot.ID)
	require.NoError(t, err)
	assert.True(t, spot.IsAvailable())

	payment := f.payments.payments[result.PaymentID]
	require.NotNil(t, payment)
	assert.Equal(t, parking.PaymentSuccess, payment.Status)
	assert.Equal(t, "PAY-"+checkedIn.TicketID.String(), payment.Reference)

	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, parking.EventSpotReleased, f.publisher.events[1].Type)
	assert.Equal(t, int64(1), f.metrics.Snapshot().CheckOutsTotal)

	// The session over, the same vehicle can check in again.
	f.checkIn(t, exit.Add(time.Minute))
}

func TestCheckOutClosedTicket(t *testing.T) {
	f := newSessionFixture(t, nil)
	entry := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	checkedIn := f.checkIn(t, entry)

	cmd := CheckOutCommand{
		LotID:    f.lot.ID,
		TicketID: checkedIn.TicketID,
		ExitAt:   entry.Add(time.Hour),
	}
	_, err := f.service.CheckOut(context.Background(), cmd)
	require.NoError(t, err)

	_, err = f.service.CheckOut(context.Background(), cmd)
	var ruleErr *parking.BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "ticket_closed", ruleErr.Code)
}

func TestCheckOutExitBeforeEntry(t *testing.T) {
	f := newSessionFixture(t, nil)
	entry := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	checkedIn := f.checkIn(t, entry)

	_, err := f.service.CheckOut(context.Background(), CheckOutCommand{
		LotID:    f.lot.ID,
		TicketID: checkedIn.TicketID,
		ExitAt:   entry.Add(-time.Minute),
	})
	var ruleErr *parking.BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "invalid_exit_time", ruleErr.Code)

	// Nothing committed: the ticket stays open and the spot occupied.
	ticket, err := f.tickets.FindByID(context.Background(), checkedIn.TicketID)
	require.NoError(t, err)
	assert.True(t, ticket.IsOpen())
}

func TestCheckOutUnknownTicket(t *testing.T) {
	f := newSessionFixture(t, nil)

	_, err := f.service.CheckOut(context.Background(), CheckOutCommand{
		LotID:    f.lot.ID,
		TicketID: uuid.New(),
		ExitAt:   time.Now().UTC(),
	})
	assert.ErrorIs(t, err, parking.ErrNotFound)
}
