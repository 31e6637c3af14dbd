package eventsourcing

import (
	"context"

	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
)

var (
	// ErrSequenceConflict signals that another command appended events for
	// the same aggregate id between load and append. The dispatcher holds a
	// per-id lock, so hitting this means an out-of-process writer raced us.
	ErrSequenceConflict = dErrors.New(dErrors.CodeConflict, "event sequence conflict")
)

// EventStore is the append-only source of truth. Events for one aggregate id
// are totally ordered by sequence; Append is all-or-nothing and fails with
// ErrSequenceConflict when expectedSequence does not match the number of
// events already persisted.
type EventStore interface {
	Load(ctx context.Context, aggregateType, aggregateID string) ([]Envelope, error)
	Append(ctx context.Context, aggregateType, aggregateID string, expectedSequence int, envelopes []Envelope) error
}
