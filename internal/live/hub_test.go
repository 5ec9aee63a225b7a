package live

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/carspace/carspace-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	ch chan string
}

func (f *fakeSource) Changes(context.Context) (<-chan string, error) {
	return f.ch, nil
}

type fakeGauge struct {
	mu           sync.Mutex
	connected    map[string]int
	disconnected map[string]int
}

func newFakeGauge() *fakeGauge {
	return &fakeGauge{connected: map[string]int{}, disconnected: map[string]int{}}
}

func (f *fakeGauge) SubscriberConnected(collection string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected[collection]++
}

func (f *fakeGauge) SubscriberDisconnected(collection string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected[collection]++
}

type countingLoader struct {
	mu    sync.Mutex
	calls int
	data  any
	err   error
}

func (c *countingLoader) load(context.Context) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.data, c.err
}

func (c *countingLoader) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "live-test", Output: io.Discard})
}

func newTestHub(t *testing.T, gauge subscriberGauge) *Hub {
	t.Helper()
	hub, err := NewHub(testLogger(), gauge)
	require.NoError(t, err)
	return hub
}

func receiveSnapshot(t *testing.T, sub *Subscription) Snapshot {
	t.Helper()
	select {
	case snapshot, ok := <-sub.C:
		require.True(t, ok, "subscription closed unexpectedly")
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	hub := newTestHub(t, nil)
	loader := &countingLoader{data: []string{"alto", "city"}}
	require.NoError(t, hub.RegisterCollection("cars", loader.load))

	sub, err := hub.Subscribe(context.Background(), "cars")
	require.NoError(t, err)
	defer sub.Close()

	snapshot := receiveSnapshot(t, sub)
	assert.Equal(t, "cars", snapshot.Collection)
	assert.Equal(t, []string{"alto", "city"}, snapshot.Data)
	assert.False(t, snapshot.EmittedAt.IsZero())
	assert.Equal(t, 1, loader.callCount())
}

func TestSubscribeUnknownCollection(t *testing.T) {
	hub := newTestHub(t, nil)

	_, err := hub.Subscribe(context.Background(), "ghosts")
	require.Error(t, err)
}

func TestSubscribeSurfacesLoaderFailure(t *testing.T) {
	hub := newTestHub(t, nil)
	loader := &countingLoader{err: fmt.Errorf("db down")}
	require.NoError(t, hub.RegisterCollection("cars", loader.load))

	_, err := hub.Subscribe(context.Background(), "cars")
	require.Error(t, err)
}

func TestChangeSignalRebroadcastsSnapshot(t *testing.T) {
	hub := newTestHub(t, nil)
	loader := &countingLoader{data: "v1"}
	require.NoError(t, hub.RegisterCollection("cars", loader.load))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &fakeSource{ch: make(chan string)}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Run(ctx, source)
	}()

	sub, err := hub.Subscribe(ctx, "cars")
	require.NoError(t, err)
	defer sub.Close()
	receiveSnapshot(t, sub) // initial

	loader.mu.Lock()
	loader.data = "v2"
	loader.mu.Unlock()
	source.ch <- "cars"

	snapshot := receiveSnapshot(t, sub)
	assert.Equal(t, "v2", snapshot.Data)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop on context cancel")
	}
}

func TestChangeSignalReachesEverySubscriber(t *testing.T) {
	hub := newTestHub(t, nil)
	loader := &countingLoader{data: "state"}
	require.NoError(t, hub.RegisterCollection("requests", loader.load))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &fakeSource{ch: make(chan string)}
	go func() { _ = hub.Run(ctx, source) }()

	first, err := hub.Subscribe(ctx, "requests")
	require.NoError(t, err)
	defer first.Close()
	second, err := hub.Subscribe(ctx, "requests")
	require.NoError(t, err)
	defer second.Close()
	receiveSnapshot(t, first)
	receiveSnapshot(t, second)

	source.ch <- "requests"

	assert.Equal(t, "state", receiveSnapshot(t, first).Data)
	assert.Equal(t, "state", receiveSnapshot(t, second).Data)
}

func TestCloseUnregistersAndUpdatesGauge(t *testing.T) {
	gauge := newFakeGauge()
	hub := newTestHub(t, gauge)
	loader := &countingLoader{data: "state"}
	require.NoError(t, hub.RegisterCollection("cars", loader.load))

	sub, err := hub.Subscribe(context.Background(), "cars")
	require.NoError(t, err)

	sub.Close()
	sub.Close() // second close is a no-op

	_, ok := <-sub.C // drain initial
	require.True(t, ok)
	_, ok = <-sub.C
	assert.False(t, ok, "channel must be closed after unsubscribe")

	gauge.mu.Lock()
	defer gauge.mu.Unlock()
	assert.Equal(t, 1, gauge.connected["cars"])
	assert.Equal(t, 1, gauge.disconnected["cars"])
}

func TestRegisterCollectionRejectsDuplicates(t *testing.T) {
	hub := newTestHub(t, nil)
	loader := &countingLoader{}
	require.NoError(t, hub.RegisterCollection("cars", loader.load))
	require.Error(t, hub.RegisterCollection("cars", loader.load))
}
