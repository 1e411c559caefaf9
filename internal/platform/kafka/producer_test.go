package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"sunhex/internal/platform/config"
)

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, SplitBrokers(""))
}

func TestAcksFor(t *testing.T) {
	assert.Equal(t, kgo.NoAck(), acksFor("0"))
	assert.Equal(t, kgo.LeaderAck(), acksFor("1"))
	assert.Equal(t, kgo.AllISRAcks(), acksFor("all"))
	assert.Equal(t, kgo.AllISRAcks(), acksFor(""))
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer(config.KafkaConfig{Brokers: " , "}, nil)
	assert.ErrorContains(t, err, "not configured")
}

func TestClosedProducerRefusesWork(t *testing.T) {
	p, err := NewProducer(config.KafkaConfig{Brokers: "127.0.0.1:1", Acks: "1", Retries: 1}, nil)
	require.NoError(t, err)

	require.NoError(t, p.Close(time.Second))
	require.NoError(t, p.Close(time.Second), "second close is a no-op")

	assert.ErrorIs(t, p.Enqueue(&Message{Topic: "audit"}), ErrClosed)
	assert.ErrorIs(t, p.Ping(context.Background()), ErrClosed)
}

func TestMessageRecordCopiesHeaders(t *testing.T) {
	rec := (&Message{
		Topic:   "audit",
		Key:     []byte("fp"),
		Value:   []byte("{}"),
		Headers: map[string]string{"action": "decode"},
	}).record()

	assert.Equal(t, "audit", rec.Topic)
	assert.Equal(t, []byte("fp"), rec.Key)
	require.Len(t, rec.Headers, 1)
	assert.Equal(t, kgo.RecordHeader{Key: "action", Value: []byte("decode")}, rec.Headers[0])
}
