package kafka_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pms/config"
	"pms/infras/kafka"
	"pms/infras/otel/mocks"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{
		Key:       "b-1",
		EventType: "booking.created",
		Value:     map[string]string{"code": "AB12CD34"},
	}

	out, err := msg.ToKafkaMessage("pms")
	require.NoError(t, err)

	assert.Equal(t, []byte("b-1"), out.Key)

	var value map[string]string
	require.NoError(t, json.Unmarshal(out.Value, &value))
	assert.Equal(t, "AB12CD34", value["code"])

	headers := map[string]string{}
	for _, header := range out.Headers {
		headers[header.Key] = string(header.Value)
	}

	assert.Equal(t, "booking.created", headers[kafka.HeaderEventType])
	assert.Equal(t, "pms", headers[kafka.HeaderSource])
	assert.NotEmpty(t, headers[kafka.HeaderEventID])
}

func TestMessage_ToKafkaMessage_InvalidValue(t *testing.T) {
	msg := kafka.Message{Key: "b-1", Value: make(chan int)}

	_, err := msg.ToKafkaMessage("pms")

	assert.Error(t, err)
}

func TestNew_DisabledReturnsNoop(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Brokers = []string{"localhost:9092"}

	publisher := kafka.New(cfg, mocks.NewOtel())

	assert.NoError(t, publisher.Publish(context.Background(), kafka.Message{Key: "b-1", EventType: "booking.cancelled"}))
	assert.NoError(t, publisher.Close())
}
