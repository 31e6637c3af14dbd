package eventsourcing

import (
	"encoding/json"
	"time"
)

// Envelope is the persisted event shape. It is storage-backend agnostic:
// the in-memory, Postgres, and Kafka representations all round-trip through
// this struct. Sequence is monotonic per (AggregateType, AggregateID) and
// starts at 1. Ordering across different aggregate ids is unspecified.
type Envelope struct {
	AggregateType string            `json:"aggregate_type"`
	AggregateID   string            `json:"aggregate_id"`
	Sequence      int               `json:"sequence"`
	EventType     string            `json:"event_type"`
	EventVersion  string            `json:"event_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

// NewEnvelope serializes a domain event into its persisted form.
func NewEnvelope(aggregateType, aggregateID string, sequence int, event Event, metadata map[string]string, at time.Time) (Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Sequence:      sequence,
		EventType:     event.EventType(),
		EventVersion:  event.EventVersion(),
		Payload:       payload,
		Metadata:      metadata,
		Timestamp:     at,
	}, nil
}
