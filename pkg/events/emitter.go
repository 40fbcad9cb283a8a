// Package events publishes listing lifecycle events to Kafka.
package events

import (
	"context"
	"time"

	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

type Publisher interface {
	Publish(ctx context.Context, key string, headers map[string]string, value []byte) error
}

// Emitter turns listing writes into ListingEvents keyed by listing id.
type Emitter struct {
	publisher Publisher
	now       func() time.Time
}

func NewEmitter(publisher Publisher) *Emitter {
	return &Emitter{
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (e *Emitter) ListingCreated(ctx context.Context, row models.ListingRow) error {
	return e.emit(ctx, EventListingCreated, row, "")
}

func (e *Emitter) ListingUpdated(ctx context.Context, row models.ListingRow) error {
	return e.emit(ctx, EventListingUpdated, row, "")
}

func (e *Emitter) ListingStatusChanged(ctx context.Context, row models.ListingRow, previous models.ListingStatus) error {
	return e.emit(ctx, EventListingStatusChanged, row, string(previous))
}

func (e *Emitter) ListingDeleted(ctx context.Context, row models.ListingRow) error {
	return e.emit(ctx, EventListingDeleted, row, "")
}

func (e *Emitter) emit(ctx context.Context, eventType string, row models.ListingRow, previous string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.emit")
	defer span.End()

	event := ListingEvent{
		Type:           eventType,
		ListingID:      row.ID,
		UserID:         row.UserID,
		Status:         row.Status,
		PreviousStatus: previous,
		LocationIDs:    row.LocationIDs(),
		Timestamp:      e.now(),
		TraceID:        tracing.GetTraceID(ctx),
	}

	data, err := event.ToJSON()
	if err != nil {
		metrics.RecordEvent(eventType, metrics.OutcomeFailed)
		return err
	}

	if err := e.publisher.Publish(ctx, row.ID, event.Headers(), data); err != nil {
		metrics.RecordEvent(eventType, metrics.OutcomeFailed)
		return err
	}
	metrics.RecordEvent(eventType, metrics.OutcomeSuccess)
	return nil
}
