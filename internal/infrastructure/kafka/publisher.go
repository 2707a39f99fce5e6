// Package kafka publica eventos de dominio en Kafka con un SyncProducer de sarama.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/jhoicas/bakery-api/internal/application/events"
	"github.com/jhoicas/bakery-api/pkg/config"
	"github.com/jhoicas/bakery-api/pkg/logger"
)

var _ events.Publisher = (*Publisher)(nil)

// Publisher envía cada evento al topic de su tipo, con el id de la entidad como clave de partición.
type Publisher struct {
	producer sarama.SyncProducer
	topics   map[events.Type]string
	log      *logger.Logger
}

// producerConfig productor idempotente con acks de todas las réplicas. Los reintentos quedan
// solo en sarama: conserva el número de secuencia y no duplica el mensaje en el broker.
func producerConfig(cfg config.KafkaConfig) *sarama.Config {
	sc := sarama.NewConfig()
	sc.Version = sarama.V2_1_0_0 // el productor idempotente requiere >= 0.11
	if cfg.ClientID != "" {
		sc.ClientID = cfg.ClientID
	}
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3
	sc.Producer.Retry.Backoff = 100 * time.Millisecond
	sc.Producer.Idempotent = true
	sc.Net.MaxOpenRequests = 1
	return sc
}

// NewPublisher conecta con los brokers configurados.
func NewPublisher(cfg config.KafkaConfig, log *logger.Logger) (*Publisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, producerConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("crear productor kafka: %w", err)
	}
	return NewPublisherWithProducer(producer, cfg, log), nil
}

// NewPublisherWithProducer usa un productor ya construido (mocks de sarama en pruebas).
func NewPublisherWithProducer(producer sarama.SyncProducer, cfg config.KafkaConfig, log *logger.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topics: map[events.Type]string{
			events.TypeOrderPlaced:     cfg.TopicOrders,
			events.TypePurchaseSaved:   cfg.TopicPurchases,
			events.TypeProductLowStock: cfg.TopicStock,
		},
		log: log.Component("kafka"),
	}
}

// Publish serializa el evento a JSON y lo envía una vez; sarama ya reintenta internamente.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	topic, ok := p.topics[event.Type]
	if !ok || topic == "" {
		return fmt.Errorf("sin topic para el evento %q", event.Type)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publicación cancelada: %w", err)
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.Key),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type)},
			{Key: []byte("event-id"), Value: []byte(event.ID)},
			{Key: []byte("timestamp"), Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("publicar en %s: %w", topic, err)
	}
	p.log.Debug().
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("event_type", string(event.Type)).
		Msg("evento publicado")
	return nil
}

// Close cierra el productor.
func (p *Publisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
