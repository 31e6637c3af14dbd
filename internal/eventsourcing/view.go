package eventsourcing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// View is a read model folded incrementally from envelopes. Implementations
// must ignore envelopes they have already observed (Update is idempotent) and
// must marshal to JSON so repositories can persist them.
type View interface {
	Update(env Envelope) error
}

// ViewRepository stores materialized views keyed by view id. The view id may
// equal the aggregate id (primary view) or be derived from event content
// (secondary index).
type ViewRepository[V View] interface {
	Load(ctx context.Context, viewID string) (V, bool, error)
	Save(ctx context.Context, viewID string, view V) error
}

// MemoryViewRepository stores views as JSON in process memory. Serializing on
// save keeps it behaviorally identical to the Redis backend.
type MemoryViewRepository[V View] struct {
	mu      sync.RWMutex
	views   map[string][]byte
	newView func() V
}

func NewMemoryViewRepository[V View](newView func() V) *MemoryViewRepository[V] {
	return &MemoryViewRepository[V]{views: make(map[string][]byte), newView: newView}
}

func (r *MemoryViewRepository[V]) Load(_ context.Context, viewID string) (V, bool, error) {
	r.mu.RLock()
	raw, ok := r.views[viewID]
	r.mu.RUnlock()

	view := r.newView()
	if !ok {
		return view, false, nil
	}
	if err := json.Unmarshal(raw, view); err != nil {
		return view, false, fmt.Errorf("decode view %q: %w", viewID, err)
	}
	return view, true, nil
}

func (r *MemoryViewRepository[V]) Save(_ context.Context, viewID string, view V) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode view %q: %w", viewID, err)
	}
	r.mu.Lock()
	r.views[viewID] = raw
	r.mu.Unlock()
	return nil
}

// RedisViewRepository stores views as JSON values under a key prefix.
type RedisViewRepository[V View] struct {
	client  redis.Cmdable
	prefix  string
	newView func() V
}

func NewRedisViewRepository[V View](client redis.Cmdable, prefix string, newView func() V) *RedisViewRepository[V] {
	return &RedisViewRepository[V]{client: client, prefix: prefix, newView: newView}
}

func (r *RedisViewRepository[V]) Load(ctx context.Context, viewID string) (V, bool, error) {
	view := r.newView()
	raw, err := r.client.Get(ctx, r.prefix+viewID).Bytes()
	if errors.Is(err, redis.Nil) {
		return view, false, nil
	}
	if err != nil {
		return view, false, fmt.Errorf("load view %q: %w", viewID, err)
	}
	if err := json.Unmarshal(raw, view); err != nil {
		return view, false, fmt.Errorf("decode view %q: %w", viewID, err)
	}
	return view, true, nil
}

func (r *RedisViewRepository[V]) Save(ctx context.Context, viewID string, view V) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode view %q: %w", viewID, err)
	}
	if err := r.client.Set(ctx, r.prefix+viewID, raw, 0).Err(); err != nil {
		return fmt.Errorf("save view %q: %w", viewID, err)
	}
	return nil
}
