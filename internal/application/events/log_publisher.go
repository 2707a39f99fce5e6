package events

import (
	"context"

	"github.com/jhoicas/bakery-api/pkg/logger"
)

var _ Publisher = (*LogPublisher)(nil)

// LogPublisher escribe los eventos en el log estructurado (sin KAFKA_BROKERS).
type LogPublisher struct {
	log *logger.Logger
}

// NewLogPublisher construye el publicador sobre el logger dado.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log.Component("events")}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.log.Info().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("key", event.Key).
		Interface("payload", event.Payload).
		Msg("evento de dominio")
	return nil
}

func (p *LogPublisher) Close() error { return nil }
