package strategy

import (
	"context"

	"github.com/rs/zerolog"

	"parking-service/internal/domain/parking"
	"parking-service/internal/repository"
)

// LoggingAvailabilityPublisher writes availability events to the
// structured log. The default sink.
type LoggingAvailabilityPublisher struct {
	log zerolog.Logger
}

func NewLoggingAvailabilityPublisher(log zerolog.Logger) *LoggingAvailabilityPublisher {
	return &LoggingAvailabilityPublisher{log: log}
}

func (p *LoggingAvailabilityPublisher) Publish(_ context.Context, event parking.AvailabilityEvent) {
	p.log.Info().
		Str("type", string(event.Type)).
		Str("lot_id", event.LotID.String()).
		Str("floor_id", event.FloorID.String()).
		Str("spot_id", event.SpotID.String()).
		Str("spot_code", event.SpotCode).
		Str("spot_status", string(event.SpotStatus)).
		Time("occurred_at", event.OccurredAt).
		Msg("availability event")
}

// OutboxAvailabilityPublisher appends events to the availability_events
// table for downstream consumers. Appends are best-effort: a failed
// insert is logged and never surfaces to the caller.
type OutboxAvailabilityPublisher struct {
	events repository.AvailabilityEventRepository
	log    zerolog.Logger
}

func NewOutboxAvailabilityPublisher(events repository.AvailabilityEventRepository, log zerolog.Logger) *OutboxAvailabilityPublisher {
	return &OutboxAvailabilityPublisher{events: events, log: log}
}

func (p *OutboxAvailabilityPublisher) Publish(ctx context.Context, event parking.AvailabilityEvent) {
	if err := p.events.Append(ctx, event); err != nil {
		p.log.Error().
			Err(err).
			Str("type", string(event.Type)).
			Str("spot_id", event.SpotID.String()).
			Msg("failed to append availability event")
	}
}
