package parking

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type SpotStatus string

const (
	SpotAvailable    SpotStatus = "AVAILABLE"
	SpotReserved     SpotStatus = "RESERVED"
	SpotOccupied     SpotStatus = "OCCUPIED"
	SpotOutOfService SpotStatus = "OUT_OF_SERVICE"
)

type SpotSize string

const (
	SizeSmall  SpotSize = "SMALL"
	SizeMedium SpotSize = "MEDIUM"
	SizeLarge  SpotSize = "LARGE"
	SizeEV     SpotSize = "EV"
	SizeBike   SpotSize = "BIKE"
)

func ParseSpotSize(s string) (SpotSize, error) {
	size := SpotSize(strings.ToUpper(strings.TrimSpace(s)))
	switch size {
	case SizeSmall, SizeMedium, SizeLarge, SizeEV, SizeBike:
		return size, nil
	default:
		return "", fmt.Errorf("unknown spot size %q", s)
	}
}

type Spot struct {
	ID      uuid.UUID
	FloorID uuid.UUID
	Code    string
	Size    SpotSize
	Status  SpotStatus
}

func NewSpot(id, floorID uuid.UUID, code string, size SpotSize) *Spot {
	return &Spot{
		ID:      id,
		FloorID: floorID,
		Code:    code,
		Size:    size,
		Status:  SpotAvailable,
	}
}

func (s *Spot) Relabel(code string) {
	s.Code = code
}

// Reserve holds the spot for an upcoming check-in. Only an AVAILABLE
// spot can be reserved.
func (s *Spot) Reserve() error {
	if s.Status != SpotAvailable {
		return NewBusinessRuleError("spot_not_available",
			fmt.Sprintf("cannot reserve spot %s with status %s", s.Code, s.Status))
	}
	s.Status = SpotReserved
	return nil
}

// Occupy transitions the spot to OCCUPIED. Legal only from AVAILABLE
// or RESERVED.
func (s *Spot) Occupy() error {
	if s.Status != SpotAvailable && s.Status != SpotReserved {
		return NewBusinessRuleError("spot_not_reserved",
			fmt.Sprintf("cannot occupy spot %s with status %s", s.Code, s.Status))
	}
	s.Status = SpotOccupied
	return nil
}

// MarkAvailable releases the spot unconditionally, including recovery
// from OUT_OF_SERVICE.
func (s *Spot) MarkAvailable() {
	s.Status = SpotAvailable
}

func (s *Spot) OutOfService() {
	s.Status = SpotOutOfService
}

func (s *Spot) IsAvailable() bool {
	return s.Status == SpotAvailable
}

// IsCompatible reports whether a vehicle of the given size may legally
// park here. SMALL/MEDIUM/LARGE form an ordered hierarchy where a spot
// hosts vehicles of its own class or larger; EV and BIKE only match
// themselves. The default allocator requires an exact size match and
// does not consult this relation.
func (s *Spot) IsCompatible(vehicleSize SpotSize) bool {
	switch s.Size {
	case SizeSmall:
		return vehicleSize == SizeSmall || vehicleSize == SizeMedium || vehicleSize == SizeLarge
	case SizeMedium:
		return vehicleSize == SizeMedium || vehicleSize == SizeLarge
	case SizeLarge:
		return vehicleSize == SizeLarge
	case SizeEV:
		return vehicleSize == SizeEV
	case SizeBike:
		return vehicleSize == SizeBike
	default:
		return false
	}
}
