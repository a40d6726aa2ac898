package events

import (
	"sync"

	"go.uber.org/zap"
)

// subscription pairs a listener with its handle, preserving registration
// order inside the per-type slice.
type subscription struct {
	handle   int
	listener Listener
}

// Bus provides a synchronous publish/subscribe broker over the battle event
// vocabulary. Delivery is in-order and inline on the publisher's goroutine;
// a panicking listener is isolated and never aborts dispatch to the
// remaining listeners, nor does it reach the publisher.
type Bus struct {
	logger *zap.Logger

	mu         sync.RWMutex
	listeners  map[EventType][]subscription
	nextHandle int

	// strict enables payload validation at publish time. Validation
	// failures are logged, never fatal: the event is still delivered and
	// subscribers degrade on their own terms.
	strict bool
}

// NewBus constructs an empty event bus.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		logger:    logger,
		listeners: make(map[EventType][]subscription),
	}
}

// SetStrict toggles publish-time payload validation. Tests and debug hosts
// turn this on; release hosts leave it off.
func (b *Bus) SetStrict(strict bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.strict = strict
}

// Subscribe registers a listener for one event type and returns its handle.
// Listeners for a type fire in registration order. Unknown event types are
// accepted (the list is created lazily) but logged as unexpected.
func (b *Bus) Subscribe(eventType EventType, listener Listener) int {
	if listener == nil {
		return -1
	}
	if !eventType.IsKnown() {
		b.logger.Warn("subscription for event type outside the battle vocabulary",
			zap.String("event_type", string(eventType)),
		)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	handle := b.nextHandle
	b.nextHandle++
	b.listeners[eventType] = append(b.listeners[eventType], subscription{
		handle:   handle,
		listener: listener,
	})
	return handle
}

// Unsubscribe removes the listener identified by handle. No-op when the
// handle is unknown.
func (b *Bus) Unsubscribe(handle int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for eventType, subs := range b.listeners {
		for i := range subs {
			if subs[i].handle == handle {
				b.listeners[eventType] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish stamps the payload into an event and delivers it synchronously to
// every listener registered for its type, in registration order. A publish
// with zero listeners is a silent no-op.
func (b *Bus) Publish(payload Payload) Event {
	event := NewEvent(payload)

	b.mu.RLock()
	strict := b.strict
	subs := make([]subscription, len(b.listeners[event.Type]))
	copy(subs, b.listeners[event.Type])
	b.mu.RUnlock()

	if strict {
		if err := payload.Validate(); err != nil {
			b.logger.Error("publishing event with invalid payload",
				zap.String("event_type", string(event.Type)),
				zap.Error(err),
			)
		}
	}

	for _, sub := range subs {
		b.dispatch(sub, event)
	}
	return event
}

// dispatch invokes one listener with panic isolation. The combat engine on
// the publishing stack must never observe a rendering failure.
func (b *Bus) dispatch(sub subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event listener panicked",
				zap.Int("handle", sub.handle),
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID),
				zap.Any("panic", r),
			)
		}
	}()
	sub.listener(event)
}

// ListenerCount returns the number of listeners registered for a type.
func (b *Bus) ListenerCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[eventType])
}

// ResetAll clears every listener list. Called when leaving a battle; safe
// to call when no battle is active.
func (b *Bus) ResetAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = make(map[EventType][]subscription)
}
