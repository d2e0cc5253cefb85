package parking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Lot struct {
	ID              uuid.UUID
	Name            string
	Address         string
	Timezone        string
	MaintenanceMode bool
}

func NewLot(id uuid.UUID, name, address, timezone string) (*Lot, error) {
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Lot{
		ID:       id,
		Name:     name,
		Address:  address,
		Timezone: timezone,
	}, nil
}

func (l *Lot) Rename(name string) {
	l.Name = name
}

func (l *Lot) SetAddress(address string) {
	l.Address = address
}

func (l *Lot) ChangeTimezone(timezone string) error {
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	l.Timezone = timezone
	return nil
}

func (l *Lot) EnableMaintenance() {
	l.MaintenanceMode = true
}

func (l *Lot) DisableMaintenance() {
	l.MaintenanceMode = false
}
