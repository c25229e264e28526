package bus

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is the notification token broadcast on every store change. It never
// carries the payload: subscribers re-read the snapshot from the store, so a
// missed or duplicated event is harmless.
type Event struct {
	Seq uint64    `json:"seq"`
	ID  string    `json:"id"`
	At  time.Time `json:"at"`
}

// Bus is an in-process publish/subscribe channel with best-effort delivery.
// Each subscriber gets its own buffered mailbox; a full mailbox drops the
// event rather than blocking the publisher or other subscribers.
type Bus struct {
	logger *slog.Logger
	buffer int

	mu      sync.RWMutex
	seq     uint64
	subs    map[string]chan Event
	dropped uint64
}

// Option configures a Bus.
type Option func(*Bus)

// WithBuffer sets the per-subscriber mailbox capacity.
func WithBuffer(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// New creates a Bus.
func New(logger *slog.Logger, opts ...Option) *Bus {
	if logger == nil {
		logger = slog.Default()
	}

	b := &Bus{
		logger: logger,
		buffer: 4,
		subs:   make(map[string]chan Event),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a new subscriber and returns its id and mailbox.
// The channel is closed by Unsubscribe.
func (b *Bus) Subscribe() (string, <-chan Event) {
	id := uuid.NewString()
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	return id, ch
}

// SubscribeFunc registers a handler invoked once per published event on a
// dedicated goroutine. A panicking handler is logged and isolated; delivery
// to other subscribers is unaffected. Returns the subscriber id.
func (b *Bus) SubscribeFunc(handler func(Event)) string {
	id, ch := b.Subscribe()

	go func() {
		for ev := range ch {
			b.invoke(id, handler, ev)
		}
	}()

	return id
}

func (b *Bus) invoke(id string, handler func(Event), ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("subscriber handler panicked", "subscriber", id, "panic", r)
		}
	}()
	handler(ev)
}

// Unsubscribe removes a subscriber and closes its mailbox.
// Unknown ids are a no-op.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	ch, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
	}
	b.mu.Unlock()

	if ok {
		close(ch)
	}
}

// Publish broadcasts one change notification to every current subscriber
// and returns the event. Subscribers that are not draining their mailbox
// miss the event entirely.
func (b *Bus) Publish() Event {
	b.mu.Lock()
	b.seq++
	ev := Event{Seq: b.seq, ID: uuid.NewString(), At: time.Now().UTC()}

	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.dropped++
			b.logger.Debug("subscriber mailbox full, event dropped", "subscriber", id, "seq", ev.Seq)
		}
	}
	b.mu.Unlock()

	return ev
}

// Subscribers returns the current subscriber count.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns the number of events dropped due to full mailboxes.
func (b *Bus) Dropped() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}
