package parking

import (
	"time"

	"github.com/google/uuid"
)

type AvailabilityEventType string

const (
	EventSpotReserved     AvailabilityEventType = "SPOT_RESERVED"
	EventSpotReleased     AvailabilityEventType = "SPOT_RELEASED"
	EventSpotOccupied     AvailabilityEventType = "SPOT_OCCUPIED"
	EventSpotOutOfService AvailabilityEventType = "SPOT_OUT_OF_SERVICE"
)

// AvailabilityEvent notifies downstream consumers of a spot status
// change. Delivery is fire-and-forget and never part of a transaction.
type AvailabilityEvent struct {
	Type       AvailabilityEventType `json:"type"`
	LotID      uuid.UUID             `json:"lot_id"`
	FloorID    uuid.UUID             `json:"floor_id"`
	SpotID     uuid.UUID             `json:"spot_id"`
	SpotCode   string                `json:"spot_code"`
	SpotSize   SpotSize              `json:"spot_size"`
	SpotStatus SpotStatus            `json:"spot_status"`
	OccurredAt time.Time             `json:"occurred_at"`
}

func NewSpotEvent(eventType AvailabilityEventType, lotID uuid.UUID, spot *Spot, occurredAt time.Time) AvailabilityEvent {
	return AvailabilityEvent{
		Type:       eventType,
		LotID:      lotID,
		FloorID:    spot.FloorID,
		SpotID:     spot.ID,
		SpotCode:   spot.Code,
		SpotSize:   spot.Size,
		SpotStatus: spot.Status,
		OccurredAt: occurredAt,
	}
}
