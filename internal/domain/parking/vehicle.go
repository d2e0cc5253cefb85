package parking

import "github.com/google/uuid"

// Vehicle is registered lazily on first check-in. LicensePlate is the
// unique business key.
type Vehicle struct {
	ID           uuid.UUID
	LicensePlate string
	Size         SpotSize
}

func NewVehicle(id uuid.UUID, licensePlate string, size SpotSize) *Vehicle {
	return &Vehicle{
		ID:           id,
		LicensePlate: licensePlate,
		Size:         size,
	}
}

func (v *Vehicle) UpdatePlate(licensePlate string) {
	v.LicensePlate = licensePlate
}

func (v *Vehicle) Resize(size SpotSize) {
	v.Size = size
}
