package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"parking-service/internal/domain/parking"
	"parking-service/internal/repository"
)

// Store bundles the gorm-backed repositories and provides the
// transaction boundary for the session orchestrator.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Repositories returns repositories bound to the base connection,
// for read-side use outside a transaction.
func (s *Store) Repositories() repository.Repositories {
	return newRepositories(s.db)
}

func (s *Store) InTransaction(ctx context.Context, fn func(r repository.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}

func newRepositories(db *gorm.DB) repository.Repositories {
	return repository.Repositories{
		Lots:      &LotRepository{db: db},
		Floors:    &FloorRepository{db: db},
		Spots:     &SpotRepository{db: db},
		Vehicles:  &VehicleRepository{db: db},
		Tickets:   &TicketRepository{db: db},
		Payments:  &PaymentRepository{db: db},
		RateCards: &RateCardRepository{db: db},
		Events:    &AvailabilityEventRepository{db: db},
	}
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return parking.ErrNotFound
	}
	return err
}
