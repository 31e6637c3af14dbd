package eventsourcing

import "context"

// Event is an immutable domain fact. Implementations are plain structs that
// marshal to JSON for persistence inside an Envelope.
type Event interface {
	EventType() string
	EventVersion() string
}

// Command expresses an intent against a single aggregate instance. Each
// aggregate defines its own closed set of command variants, matched
// exhaustively in Handle.
type Command interface {
	CommandType() string
}

// Aggregate derives its state solely by folding its event history.
//
// Implementations are pointer types whose zero value is the initial state.
// Apply mutates the receiver and must be deterministic: replaying the same
// events in the same order from the zero value always yields the same state.
// Handle validates a command against current state and returns the resulting
// events without mutating the receiver. Handle may consult injected services
// (signing, outbound protocol calls); a service failure is translated into a
// domain error and aborts the command.
type Aggregate[E Event, C Command] interface {
	AggregateType() string
	Handle(ctx context.Context, cmd C) ([]E, error)
	Apply(event E) error
}
