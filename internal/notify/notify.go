// Package notify delivers short user-facing notices ("toasts") from the
// state core to whatever presentation layer is attached. The core never
// renders; it only publishes.
package notify

import "sync"

// Level indicates how a notice should be presented.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Toast is one user-facing notice.
type Toast struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Listener receives every published toast.
type Listener func(Toast)

// Center fans published toasts out to registered listeners. Safe for
// concurrent use; listeners are invoked synchronously in registration order.
type Center struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewCenter constructs an empty notification center.
func NewCenter() *Center {
	return &Center{}
}

// Subscribe registers a listener and returns an unsubscribe func.
func (c *Center) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := len(c.listeners)
	c.listeners = append(c.listeners, fn)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if idx < len(c.listeners) {
			c.listeners[idx] = nil
		}
	}
}

// Publish delivers a toast to all listeners.
func (c *Center) Publish(level Level, message string) {
	c.mu.RLock()
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.RUnlock()
	toast := Toast{Level: level, Message: message}
	for _, fn := range listeners {
		if fn != nil {
			fn(toast)
		}
	}
}

// Info publishes an informational toast.
func (c *Center) Info(message string) { c.Publish(LevelInfo, message) }

// Success publishes a success toast.
func (c *Center) Success(message string) { c.Publish(LevelSuccess, message) }

// Error publishes an error toast.
func (c *Center) Error(message string) { c.Publish(LevelError, message) }
