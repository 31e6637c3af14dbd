package eventsourcing

import (
	"context"
	"sync"
)

// MemoryEventStore keeps event logs in process memory. It favors clarity over
// performance and is the default backend for tests and local development.
type MemoryEventStore struct {
	mu   sync.RWMutex
	logs map[string][]Envelope
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{logs: make(map[string][]Envelope)}
}

func (s *MemoryEventStore) Load(_ context.Context, aggregateType, aggregateID string) ([]Envelope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logs[streamKey(aggregateType, aggregateID)]
	out := make([]Envelope, len(log))
	copy(out, log)
	return out, nil
}

func (s *MemoryEventStore) Append(_ context.Context, aggregateType, aggregateID string, expectedSequence int, envelopes []Envelope) error {
	if len(envelopes) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := streamKey(aggregateType, aggregateID)
	if len(s.logs[key]) != expectedSequence {
		return ErrSequenceConflict
	}
	s.logs[key] = append(s.logs[key], envelopes...)
	return nil
}

func streamKey(aggregateType, aggregateID string) string {
	return aggregateType + "/" + aggregateID
}
