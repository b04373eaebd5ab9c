package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []skafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestPublish(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaProducerWithWriter(fw)

	err := p.Publish(context.Background(), "c1", NewEvent(ConsignmentCreated, "c1", map[string]string{"consignment_no": "DXOO1"}))
	require.NoError(t, err)
	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "c1", string(fw.msgs[0].Key))

	var got Event
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &got))
	assert.Equal(t, ConsignmentCreated, got.Type)
	assert.Equal(t, "c1", got.EntityID)
}

func TestPublishWriteError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	p := NewKafkaProducerWithWriter(fw)

	err := p.Publish(context.Background(), "c1", NewEvent(ConsignmentUpdated, "c1", nil))
	assert.ErrorContains(t, err, "broker down")
}

func TestPublishUnencodableValue(t *testing.T) {
	p := NewKafkaProducerWithWriter(&fakeWriter{})

	err := p.Publish(context.Background(), "c1", make(chan int))
	assert.Error(t, err)
}
