package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
)

func quietLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func headerMap(headers []kafka.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func TestNewProducerRequiresBrokersAndTopic(t *testing.T) {
	config := DefaultProducerConfig()
	config.Brokers = nil
	_, err := NewProducer(config, quietLogger())
	assert.Error(t, err)

	config = DefaultProducerConfig()
	config.Topic = ""
	_, err = NewProducer(config, quietLogger())
	assert.Error(t, err)

	producer, err := NewProducer(DefaultProducerConfig(), quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "events", producer.GetName())
	assert.Empty(t, producer.DependsOn())
	require.NoError(t, producer.Close())
}

func TestCompression(t *testing.T) {
	assert.Equal(t, kafka.Gzip, compression("gzip"))
	assert.Equal(t, kafka.Snappy, compression("snappy"))
	assert.Equal(t, kafka.Lz4, compression("lz4"))
	assert.Equal(t, kafka.Zstd, compression("zstd"))
	assert.Equal(t, kafka.Compression(0), compression("none"))
}

func TestPublishWritesKeyedMessage(t *testing.T) {
	writer := &fakeWriter{}
	producer := NewProducerWithWriter(writer, DefaultProducerConfig(), quietLogger())

	err := producer.Publish(context.Background(), "listing-1", map[string]string{"event_type": EventListingCreated}, []byte(`{}`))

	require.NoError(t, err)
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "listing-1", string(writer.messages[0].Key))
	assert.Equal(t, map[string]string{"event_type": EventListingCreated}, headerMap(writer.messages[0].Headers))

	require.NoError(t, producer.Stop(context.Background()))
	assert.True(t, writer.closed)
}

func TestPublishWrapsWriterError(t *testing.T) {
	cause := errors.New("leader not available")
	producer := NewProducerWithWriter(&fakeWriter{err: cause}, DefaultProducerConfig(), quietLogger())

	err := producer.Publish(context.Background(), "listing-1", nil, []byte(`{}`))

	assert.ErrorIs(t, err, cause)
}

func TestEmitterPublishesListingEvents(t *testing.T) {
	writer := &fakeWriter{}
	emitter := NewEmitter(NewProducerWithWriter(writer, DefaultProducerConfig(), quietLogger()))
	emitter.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	row := models.ListingRow{
		ID:         "listing-1",
		UserID:     "user-1",
		Status:     "sold",
		ProvinceID: "prov-1",
		CityID:     "city-1",
	}

	require.NoError(t, emitter.ListingCreated(context.Background(), row))
	require.NoError(t, emitter.ListingStatusChanged(context.Background(), row, models.ListingStatusActive))
	require.NoError(t, emitter.ListingUpdated(context.Background(), row))
	require.NoError(t, emitter.ListingDeleted(context.Background(), row))

	require.Len(t, writer.messages, 4)
	wantTypes := []string{EventListingCreated, EventListingStatusChanged, EventListingUpdated, EventListingDeleted}
	for i, msg := range writer.messages {
		event, err := ParseListingEvent(msg.Value)
		require.NoError(t, err)
		assert.Equal(t, wantTypes[i], event.Type)
		assert.Equal(t, "listing-1", event.ListingID)
		assert.Equal(t, []string{"prov-1", "city-1"}, event.LocationIDs)
		assert.Equal(t, wantTypes[i], headerMap(msg.Headers)["event_type"])
		assert.Equal(t, "listing-1", string(msg.Key))
	}

	changed, err := ParseListingEvent(writer.messages[1].Value)
	require.NoError(t, err)
	assert.Equal(t, "active", changed.PreviousStatus)
	assert.Equal(t, "sold", changed.Status)
}

func TestEmitterReturnsPublishFailure(t *testing.T) {
	emitter := NewEmitter(NewProducerWithWriter(&fakeWriter{err: errors.New("broker down")}, DefaultProducerConfig(), quietLogger()))

	err := emitter.ListingDeleted(context.Background(), models.ListingRow{ID: "listing-1"})

	assert.Error(t, err)
}

func TestListingEventHeaders(t *testing.T) {
	assert.Equal(t, map[string]string{"event_type": EventListingDeleted}, ListingEvent{Type: EventListingDeleted}.Headers())
	assert.Equal(t,
		map[string]string{"event_type": EventListingCreated, "trace_id": "abc123"},
		ListingEvent{Type: EventListingCreated, TraceID: "abc123"}.Headers(),
	)

	_, err := ParseListingEvent([]byte(`{"type":`))
	assert.Error(t, err)
}
