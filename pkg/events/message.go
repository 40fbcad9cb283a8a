package events

import (
	"encoding/json"
	"time"
)

const (
	EventListingCreated       = "listing.created"
	EventListingUpdated       = "listing.updated"
	EventListingStatusChanged = "listing.status_changed"
	EventListingDeleted       = "listing.deleted"
)

// ListingEvent is the payload of every listing lifecycle message.
type ListingEvent struct {
	Type           string    `json:"type"`
	ListingID      string    `json:"listing_id"`
	UserID         string    `json:"user_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	LocationIDs    []string  `json:"location_ids"`
	Timestamp      time.Time `json:"timestamp"`
	TraceID        string    `json:"trace_id,omitempty"`
}

func (e ListingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ParseListingEvent(data []byte) (*ListingEvent, error) {
	var event ListingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (e ListingEvent) Headers() map[string]string {
	headers := map[string]string{
		"event_type": e.Type,
	}
	if e.TraceID != "" {
		headers["trace_id"] = e.TraceID
	}
	return headers
}
