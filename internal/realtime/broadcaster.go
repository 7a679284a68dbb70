package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"hotel-assistant-api/internal/analytics"
	"hotel-assistant-api/internal/metrics"
)

const defaultInterval = 5 * time.Second

// FetchFunc produces the current snapshot for a subscription. It is built
// per subscription so it can bake in the assistant and the viewer's role.
type FetchFunc func(ctx context.Context) (analytics.Snapshot, error)

// PushFunc delivers a snapshot to the subscriber's transport.
type PushFunc func(analytics.Snapshot)

type subKey struct {
	connID      string
	assistantID string
}

type ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ *time.Ticker }

func (t realTicker) C() <-chan time.Time { return t.Ticker.C }

// Broadcaster drives periodic snapshot pushes for realtime subscriptions.
//
// Invariants:
// - at most one runner per (connection, assistant); resubscribing replaces
//   the old runner instead of stacking a second one
// - pushes for one subscription are strictly sequential
// - after Unsubscribe returns no further pushes happen for that key;
//   an in-flight fetch result is discarded
type Broadcaster struct {
	log      *slog.Logger
	interval time.Duration

	mu   sync.Mutex
	subs map[subKey]context.CancelFunc

	newTicker func(d time.Duration) ticker
}

func NewBroadcaster(log *slog.Logger) *Broadcaster {
	return &Broadcaster{
		log:      log,
		interval: defaultInterval,
		subs:     map[subKey]context.CancelFunc{},
		newTicker: func(d time.Duration) ticker {
			return realTicker{time.NewTicker(d)}
		},
	}
}

// Subscribe starts a runner for the (connection, assistant) pair: one
// immediate snapshot, then one per interval until the context is canceled or
// Unsubscribe is called.
func (b *Broadcaster) Subscribe(ctx context.Context, connID, assistantID string, fetch FetchFunc, push PushFunc) {
	key := subKey{connID: connID, assistantID: assistantID}
	runCtx, cancel := context.WithCancel(ctx)

	b.mu.Lock()
	if prev, ok := b.subs[key]; ok {
		prev()
		metrics.SubscriptionEnded()
	}
	b.subs[key] = cancel
	b.mu.Unlock()
	metrics.SubscriptionStarted()

	go b.run(runCtx, key, fetch, push)
}

// Unsubscribe cancels the runner for the pair. Safe to call for keys that
// were never subscribed.
func (b *Broadcaster) Unsubscribe(connID, assistantID string) {
	key := subKey{connID: connID, assistantID: assistantID}

	b.mu.Lock()
	cancel, ok := b.subs[key]
	if ok {
		delete(b.subs, key)
	}
	b.mu.Unlock()

	if ok {
		cancel()
		metrics.SubscriptionEnded()
	}
}

// DropConnection cancels every subscription belonging to the connection.
func (b *Broadcaster) DropConnection(connID string) {
	b.mu.Lock()
	var cancels []context.CancelFunc
	for key, cancel := range b.subs {
		if key.connID == connID {
			cancels = append(cancels, cancel)
			delete(b.subs, key)
		}
	}
	b.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
		metrics.SubscriptionEnded()
	}
}

func (b *Broadcaster) run(ctx context.Context, key subKey, fetch FetchFunc, push PushFunc) {
	b.tick(ctx, key, fetch, push)

	t := b.newTicker(b.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			b.tick(ctx, key, fetch, push)
		}
	}
}

// tick fetches and pushes one snapshot. A canceled context after the fetch
// discards the result; a failed fetch is logged and the tick skipped.
func (b *Broadcaster) tick(ctx context.Context, key subKey, fetch FetchFunc, push PushFunc) {
	snap, err := fetch(ctx)
	if err != nil {
		b.log.Error("realtime snapshot fetch failed",
			"assistant_id", key.assistantID, "conn_id", key.connID, "err", err)
		return
	}
	if ctx.Err() != nil {
		return
	}
	push(snap)
}
