package display

import (
	"fmt"
	"runtime"
	"sync"

	"cockpitview/log"
	"cockpitview/ui/scale"
)

// Event names.
const (
	EventScaleChanged      = "scaleChanged"
	EventResolutionChanged = "resolutionChanged"
)

// ScaleChanged is the payload of EventScaleChanged.
type ScaleChanged struct {
	State  State
	Sample scale.Sample
}

// ResolutionChanged is the payload of EventResolutionChanged.
type ResolutionChanged struct {
	Key    string
	Width  int
	Height int
	Preset scale.Preset
}

// Handler receives an event payload.
type Handler func(payload any)

// Bus delivers named events synchronously to their subscribers, in
// subscription order.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]*Subscription
}

// Subscription is a registered Handler.
type Subscription struct {
	bus     *Bus
	event   string
	handler Handler
	// source is the subscriber's callsite, for debugging leaked subscriptions.
	source string
}

// NewBus returns a bus without subscribers.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]*Subscription)}
}

// Subscribe registers h for event.
func (b *Bus) Subscribe(event string, h Handler) *Subscription {
	_, fn, line, _ := runtime.Caller(1)
	sub := &Subscription{
		bus:     b,
		event:   event,
		handler: h,
		source:  fmt.Sprintf("%s:%d", fn, line),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[event] = append(b.subs[event], sub)
	return sub
}

// Unsubscribe removes the subscription. Calling it twice is harmless.
func (s *Subscription) Unsubscribe() {
	if s.bus == nil {
		return
	}
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[s.event]
	for i, other := range subs {
		if other == s {
			b.subs[s.event] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	s.bus = nil
}

// Emit calls every current subscriber of event. Handlers run on the caller's
// goroutine, outside the bus lock, so they may subscribe or unsubscribe.
func (b *Bus) Emit(event string, payload any) {
	b.mu.Lock()
	subs := append([]*Subscription(nil), b.subs[event]...)
	b.mu.Unlock()

	log.Debug("emit %s to %d subscribers", event, len(subs))
	for _, s := range subs {
		s.handler(payload)
	}
}

// Count returns the number of subscribers of event.
func (b *Bus) Count(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[event])
}

// Clear drops every subscription.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, subs := range b.subs {
		for _, s := range subs {
			s.bus = nil
		}
	}
	b.subs = make(map[string][]*Subscription)
}

// queued is an event collected while the manager lock is held and delivered
// after it is released.
type queued struct {
	name    string
	payload any
}

type batch struct {
	events []queued
}

func (b *batch) add(name string, payload any) {
	b.events = append(b.events, queued{name: name, payload: payload})
}
