package eventsourcing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/impierce/ssi-agent-sub000/internal/platform/kafka/producer"
)

// Projector folds freshly appended envelopes into one or more read models.
// The dispatcher drives registered projectors synchronously, in the order the
// events were produced.
type Projector interface {
	Project(ctx context.Context, aggregateID string, envelopes []Envelope) error
}

// ViewProjector maintains the primary view, keyed by the aggregate id.
type ViewProjector[V View] struct {
	repo    ViewRepository[V]
	newView func() V
}

func NewViewProjector[V View](repo ViewRepository[V], newView func() V) *ViewProjector[V] {
	return &ViewProjector[V]{repo: repo, newView: newView}
}

func (p *ViewProjector[V]) Project(ctx context.Context, aggregateID string, envelopes []Envelope) error {
	return foldInto(ctx, p.repo, aggregateID, envelopes)
}

// SecondaryIndexProjector re-keys a view under a value carried inside an
// event payload, such as a pre-authorized code or an access token. Events for
// which the key func reports no key are skipped; that is a no-op, not an
// error. Multiple secondary-index projectors may exist per aggregate type,
// each keyed on a different field, without interfering with one another.
type SecondaryIndexProjector[V View] struct {
	repo ViewRepository[V]
	key  func(env Envelope) (string, bool)
}

func NewSecondaryIndexProjector[V View](repo ViewRepository[V], key func(env Envelope) (string, bool)) *SecondaryIndexProjector[V] {
	return &SecondaryIndexProjector[V]{repo: repo, key: key}
}

func (p *SecondaryIndexProjector[V]) Project(ctx context.Context, _ string, envelopes []Envelope) error {
	// An aggregate's events may mint the alternate key mid-stream, so each
	// envelope is folded under the key it carries.
	for _, env := range envelopes {
		viewID, ok := p.key(env)
		if !ok {
			continue
		}
		if err := foldInto(ctx, p.repo, viewID, []Envelope{env}); err != nil {
			return err
		}
	}
	return nil
}

func foldInto[V View](ctx context.Context, repo ViewRepository[V], viewID string, envelopes []Envelope) error {
	view, _, err := repo.Load(ctx, viewID)
	if err != nil {
		return err
	}
	for _, env := range envelopes {
		if err := view.Update(env); err != nil {
			return fmt.Errorf("update view %q: %w", viewID, err)
		}
	}
	return repo.Save(ctx, viewID, view)
}

// EventPublisher fans appended envelopes out to Kafka so external systems
// (e.g. the backend that supplies credential subject data after a request is
// verified) can subscribe to aggregate state changes.
type EventPublisher struct {
	producer *producer.Producer
	topic    string
}

func NewEventPublisher(prod *producer.Producer, topic string) *EventPublisher {
	return &EventPublisher{producer: prod, topic: topic}
}

func (p *EventPublisher) Project(ctx context.Context, aggregateID string, envelopes []Envelope) error {
	for _, env := range envelopes {
		value, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("encode envelope: %w", err)
		}
		msg := &producer.Message{
			Topic: p.topic,
			Key:   []byte(aggregateID),
			Value: value,
			Headers: map[string]string{
				"aggregate_type": env.AggregateType,
				"event_type":     env.EventType,
			},
		}
		if err := p.producer.Produce(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}
