package live

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carspace/carspace-backend/pkg/logger"
)

// subscriberBuffer bounds the per-subscriber queue. A consumer that
// falls this far behind loses intermediate snapshots, which is safe:
// every emission is a complete replacement.
const subscriberBuffer = 8

// Snapshot is one authoritative emission for a collection. Data always
// holds the whole collection, never a delta.
type Snapshot struct {
	Collection string    `json:"collection"`
	Data       any       `json:"data"`
	EmittedAt  time.Time `json:"emitted_at"`
}

// SnapshotLoader produces the current full contents of a collection.
type SnapshotLoader func(ctx context.Context) (any, error)

type changeSource interface {
	Changes(ctx context.Context) (<-chan string, error)
}

type subscriberGauge interface {
	SubscriberConnected(collection string)
	SubscriberDisconnected(collection string)
}

// Subscription is one consumer's view of a collection feed. C delivers
// the initial snapshot followed by one snapshot per observed change.
type Subscription struct {
	C <-chan Snapshot

	hub        *Hub
	collection string
	ch         chan Snapshot
	once       sync.Once
}

// Close unregisters the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s.collection, s.ch)
	})
}

// Hub tracks feed subscribers per collection and rebroadcasts a fresh
// snapshot whenever a change signal arrives.
type Hub struct {
	logg  *logger.Logger
	gauge subscriberGauge

	mu          sync.RWMutex
	loaders     map[string]SnapshotLoader
	subscribers map[string]map[chan Snapshot]struct{}
}

// NewHub constructs a hub. The gauge is optional.
func NewHub(logg *logger.Logger, gauge subscriberGauge) (*Hub, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Hub{
		logg:        logg,
		gauge:       gauge,
		loaders:     map[string]SnapshotLoader{},
		subscribers: map[string]map[chan Snapshot]struct{}{},
	}, nil
}

// RegisterCollection wires a loader for the named collection. Every
// collection must be registered before the first Subscribe.
func (h *Hub) RegisterCollection(name string, loader SnapshotLoader) error {
	if name == "" {
		return fmt.Errorf("collection name required")
	}
	if loader == nil {
		return fmt.Errorf("snapshot loader required")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.loaders[name]; exists {
		return fmt.Errorf("collection %q already registered", name)
	}
	h.loaders[name] = loader
	h.subscribers[name] = map[chan Snapshot]struct{}{}
	return nil
}

// Subscribe registers a consumer and queues the current snapshot so the
// feed starts complete rather than waiting for the next change.
func (h *Hub) Subscribe(ctx context.Context, collection string) (*Subscription, error) {
	h.mu.RLock()
	loader, ok := h.loaders[collection]
	h.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}

	snapshot, err := h.load(ctx, collection, loader)
	if err != nil {
		return nil, err
	}

	ch := make(chan Snapshot, subscriberBuffer)
	ch <- snapshot

	h.mu.Lock()
	h.subscribers[collection][ch] = struct{}{}
	h.mu.Unlock()

	if h.gauge != nil {
		h.gauge.SubscriberConnected(collection)
	}

	return &Subscription{C: ch, hub: h, collection: collection, ch: ch}, nil
}

// Run consumes change signals until the context ends or the source
// channel closes.
func (h *Hub) Run(ctx context.Context, source changeSource) error {
	if source == nil {
		return fmt.Errorf("change source required")
	}
	changes, err := source.Changes(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case collection, ok := <-changes:
			if !ok {
				return nil
			}
			h.broadcast(ctx, collection)
		}
	}
}

func (h *Hub) broadcast(ctx context.Context, collection string) {
	h.mu.RLock()
	loader, known := h.loaders[collection]
	h.mu.RUnlock()
	if !known {
		h.logg.Warn(ctx, fmt.Sprintf("change signal for unknown collection %q", collection))
		return
	}

	snapshot, err := h.load(ctx, collection, loader)
	if err != nil {
		h.logg.Error(ctx, fmt.Sprintf("loading %s snapshot", collection), err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers[collection] {
		select {
		case ch <- snapshot:
		default:
			// Subscriber is saturated; the next snapshot supersedes
			// anything it missed.
		}
	}
}

func (h *Hub) load(ctx context.Context, collection string, loader SnapshotLoader) (Snapshot, error) {
	data, err := loader(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Collection: collection,
		Data:       data,
		EmittedAt:  time.Now().UTC(),
	}, nil
}

func (h *Hub) unsubscribe(collection string, ch chan Snapshot) {
	h.mu.Lock()
	if subs, ok := h.subscribers[collection]; ok {
		delete(subs, ch)
	}
	h.mu.Unlock()
	close(ch)

	if h.gauge != nil {
		h.gauge.SubscriberDisconnected(collection)
	}
}
