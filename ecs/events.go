package ecs

import (
	"reflect"
	"slices"
)

type eventKey struct {
	emitter EntityId
	event   reflect.Type
}

type subscription struct {
	listener EntityId
	handler  any
}

// EventBus routes events from an emitting entity to the handlers its
// listeners registered for that event type.
type EventBus struct {
	handlers map[eventKey][]subscription
}

func newEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[eventKey][]subscription),
	}
}

// Len returns the number of registered handlers.
func (b *EventBus) Len() int {
	n := 0
	for _, subs := range b.handlers {
		n += len(subs)
	}
	return n
}

// drop removes every subscription in which e is the emitter or the listener.
func (b *EventBus) drop(e EntityId) int {
	dropped := 0
	for key, subs := range b.handlers {
		if key.emitter == e {
			dropped += len(subs)
			delete(b.handlers, key)
			continue
		}
		dropped += b.dropListener(key, e)
	}
	return dropped
}

func (b *EventBus) dropListener(key eventKey, listener EntityId) int {
	subs := b.handlers[key]
	kept := slices.DeleteFunc(subs, func(s subscription) bool {
		return s.listener == listener
	})
	dropped := len(subs) - len(kept)
	if len(kept) == 0 {
		delete(b.handlers, key)
	} else {
		b.handlers[key] = kept
	}
	return dropped
}

// Subscribe registers handler to run whenever emitter emits an event of type
// E. Handlers run in the order they were subscribed.
func Subscribe[E any, T any, L any](w *World, emitter Id[T], listener Id[L], handler func(*World, E)) {
	key := eventKey{emitter: emitter.Erase(), event: reflect.TypeFor[E]()}
	w.events.handlers[key] = append(w.events.handlers[key], subscription{
		listener: listener.Erase(),
		handler:  handler,
	})
}

// Emit synchronously runs every handler subscribed to events of type E from
// emitter. Handlers subscribed while emitting are not run for this event,
// and handlers whose listener is gone are skipped. Returns the number of
// handlers run.
func Emit[E any, T any](w *World, emitter Id[T], event E) int {
	key := eventKey{emitter: emitter.Erase(), event: reflect.TypeFor[E]()}
	subs := w.events.handlers[key]
	if len(subs) == 0 {
		return 0
	}

	called := 0
	for _, s := range slices.Clone(subs) {
		if !w.registry.Contains(s.listener) {
			continue
		}
		s.handler.(func(*World, E))(w, event)
		called++
	}
	return called
}

// Unsubscribe drops every handler registered by listener.
func Unsubscribe[L any](w *World, listener Id[L]) int {
	e := listener.Erase()
	dropped := 0
	for key := range w.events.handlers {
		dropped += w.events.dropListener(key, e)
	}
	return dropped
}
