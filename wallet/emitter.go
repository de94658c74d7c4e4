package wallet

import "sync"

// Emitter is a listener registry providers can embed to implement On and
// RemoveListener. It is safe for concurrent use.
type Emitter struct {
	mu        sync.Mutex
	listeners map[EventType][]Listener
}

// On registers l for event. Registering the same listener twice is a no-op.
func (e *Emitter) On(event EventType, l Listener) {
	if l == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners == nil {
		e.listeners = make(map[EventType][]Listener)
	}
	for _, existing := range e.listeners[event] {
		if existing == l {
			return
		}
	}
	e.listeners[event] = append(e.listeners[event], l)
}

// RemoveListener deregisters l for event. Removing an unknown listener is a no-op.
func (e *Emitter) RemoveListener(event EventType, l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()

	old := e.listeners[event]
	kept := make([]Listener, 0, len(old))
	for _, existing := range old {
		if existing != l {
			kept = append(kept, existing)
		}
	}
	if len(kept) == 0 {
		delete(e.listeners, event)
		return
	}
	e.listeners[event] = kept
}

// Emit delivers ev to every listener registered for ev.Type, in registration order.
// Listeners may deregister while being called.
func (e *Emitter) Emit(ev Event) {
	e.mu.Lock()
	snapshot := append([]Listener(nil), e.listeners[ev.Type]...)
	e.mu.Unlock()

	for _, l := range snapshot {
		l.HandleEvent(ev)
	}
}

// ListenerCount returns how many listeners are registered for event
func (e *Emitter) ListenerCount(event EventType) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[event])
}
