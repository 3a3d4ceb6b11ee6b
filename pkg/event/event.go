// Package event provides a simple synchronous event dispatcher.
//
// The stores publish lifecycle events (session expired, logout, cart synced)
// and the surfaces — CLI commands, the daemon — subscribe without the stores
// knowing who is listening.
package event

import (
	"sync"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(name string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[name] = append(handlers[name], handler)
}

// Fire dispatches an event synchronously to all registered listeners, in
// registration order.
func Fire(name string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[name]))
	copy(hs, handlers[name])
	mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
