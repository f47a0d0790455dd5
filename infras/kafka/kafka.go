package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"pms/config"
	"pms/infras/otel"
	"pms/shared/constant"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
)

type Message struct {
	Key       string
	EventType string
	Value     any
}

func (m *Message) ToKafkaMessage(source string) (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	message := kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: jsonValue,
		Headers: []kafkaGo.Header{
			{Key: HeaderEventID, Value: []byte(uuid.NewString())},
			{Key: HeaderEventType, Value: []byte(m.EventType)},
			{Key: HeaderSource, Value: []byte(source)},
		},
	}

	return message, nil
}

// Publisher writes events to the configured topic. Messages with the same key land on the same
// partition, so the events of one booking keep their order.
type Publisher interface {
	Publish(ctx context.Context, messages ...Message) error
	Close() error
}

type publisherImpl struct {
	writer *kafkaGo.Writer
	source string
	otel   otel.Otel
	mu     sync.RWMutex
	closed bool
}

// New returns a no-op publisher when Kafka is disabled or has no brokers.
func New(cfg *config.Config, otel otel.Otel) Publisher {
	if !cfg.Kafka.Enable || len(cfg.Kafka.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, events will not be published")

		return NewNoop()
	}

	transport := &kafkaGo.Transport{}

	if cfg.Kafka.SASL.Username != constant.Empty {
		transport.SASL = plain.Mechanism{
			Username: cfg.Kafka.SASL.Username,
			Password: cfg.Kafka.SASL.Password,
		}
	}

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(cfg.Kafka.Brokers...),
		Topic:                  cfg.Kafka.Topic,
		Balancer:               &kafkaGo.Hash{},
		RequiredAcks:           kafkaGo.RequireAll,
		Compression:            compress.Snappy,
		Transport:              transport,
		AllowAutoTopicCreation: true,
		ErrorLogger: kafkaGo.LoggerFunc(func(msg string, args ...any) {
			log.Error().Msgf(msg, args...)
		}),
	}

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka publisher initialized")

	return &publisherImpl{
		writer: writer,
		source: cfg.App.Name,
		otel:   otel,
	}
}

func (p *publisherImpl) Publish(ctx context.Context, messages ...Message) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}

	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage(p.source)
		if err != nil {
			return fmt.Errorf("failed to convert message to Kafka message: %w", err)
		}

		msgs = append(msgs, msg)
	}

	err = p.writer.WriteMessages(ctx, msgs...)
	if err != nil {
		log.Error().Err(err).Str("topic", p.writer.Topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", p.writer.Topic).Int("messages", len(msgs)).Msg("Sent messages successfully.")

	return nil
}

func (p *publisherImpl) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true

	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}

	return nil
}

type noopPublisher struct{}

func NewNoop() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(_ context.Context, messages ...Message) error {
	for _, message := range messages {
		log.Debug().Str("key", message.Key).Str("event", message.EventType).Msg("Kafka disabled, dropping event")
	}

	return nil
}

func (noopPublisher) Close() error {
	return nil
}
