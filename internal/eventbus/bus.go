// Package eventbus implements the single in-process publish/subscribe fabric
// every platform runtime publishes into and every consumer (the pipeline
// executor, the plugin service) reads from.
//
// Delivery is per-subscriber FIFO and lossy on overflow: a slow subscriber
// never blocks Publish and never blocks other subscribers — its oldest
// buffered event is dropped to make room for the new one, and a drop counter
// is incremented so operators can see it happening.
package eventbus

import (
	"sync"

	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/logging"
	"github.com/kittynxr/maowbot/internal/metrics"
)

// DefaultBufferSize is used by Subscribe when the caller passes 0.
const DefaultBufferSize = 256

// Bus is a fan-out publisher. The zero value is not usable; use New.
type Bus struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}

	closeOnce sync.Once
	shutdown  chan struct{}
}

// New returns a ready-to-use Bus.
func New() *Bus {
	return &Bus{
		subs:     make(map[*subscriber]struct{}),
		shutdown: make(chan struct{}),
	}
}

// Receiver is the subscriber-facing handle. C receives events; Shutdown
// closes when the bus is shut down — receivers observing it must stop their
// read loop. Drops reports the number of events dropped for this subscriber
// due to overflow.
type Receiver struct {
	C        <-chan event.Event
	Shutdown <-chan struct{}
	sub      *subscriber
}

// Drops returns the number of events dropped for this subscriber so far.
func (r Receiver) Drops() uint64 {
	return r.sub.drops.Load()
}

type subscriber struct {
	ch    chan event.Event
	drops counter
}

// counter is a tiny mutex-guarded uint64, kept dependency-free since it is an
// internal accounting detail, not a user-facing metric (those go through
// internal/metrics).
type counter struct {
	mu sync.Mutex
	n  uint64
}

func (c *counter) Add(d uint64) {
	c.mu.Lock()
	c.n += d
	c.mu.Unlock()
}

func (c *counter) Load() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Subscribe registers a new receiver with the given buffer size (0 uses
// DefaultBufferSize). Call Unsubscribe when done to release resources.
func (b *Bus) Subscribe(bufferSize int) Receiver {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	sub := &subscriber{ch: make(chan event.Event, bufferSize)}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return Receiver{C: sub.ch, Shutdown: b.shutdown, sub: sub}
}

// Unsubscribe removes the receiver. Safe to call more than once.
func (b *Bus) Unsubscribe(r Receiver) {
	b.mu.Lock()
	delete(b.subs, r.sub)
	b.mu.Unlock()
}

// Publish delivers e to every current subscriber. It never blocks: a full
// subscriber buffer has its oldest event dropped to make room.
//
// The subscriber table is copied under a short critical section so the send
// loop itself never holds the bus lock — a slow subscriber's channel send
// (non-blocking, thanks to the drop-oldest trick below) cannot stall
// Subscribe/Unsubscribe calls from other goroutines.
func (b *Bus) Publish(e event.Event) {
	b.mu.Lock()
	targets := make([]*subscriber, 0, len(b.subs))
	for s := range b.subs {
		targets = append(targets, s)
	}
	b.mu.Unlock()

	for _, s := range targets {
		deliver(s, e)
	}
}

func deliver(s *subscriber, e event.Event) {
	select {
	case s.ch <- e:
		return
	default:
	}
	// Buffer full: drop the oldest queued event, then retry once. Another
	// publisher could race us for the freed slot, in which case we simply
	// drop this event too and count it — still within the "lossy" contract.
	select {
	case <-s.ch:
		s.drops.Add(1)
		metrics.EventBusDroppedTotal.Inc()
	default:
	}
	select {
	case s.ch <- e:
	default:
		s.drops.Add(1)
		metrics.EventBusDroppedTotal.Inc()
	}
}

// Shutdown broadcasts to every receiver's Shutdown channel and is idempotent.
// It does not close subscriber data channels; receivers are expected to stop
// reading once they observe Shutdown.
func (b *Bus) Shutdown() {
	b.closeOnce.Do(func() {
		close(b.shutdown)
		logging.Logger().Info("eventbus: shutdown broadcast sent")
	})
}
