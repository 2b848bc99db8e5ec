package domain

import "sync"

// Event signals that an order's lookup stats changed, or that the order
// entered the dead state after exhausting retries.
type Event struct {
	OrderID int64
	Outcome Outcome
	Err     error
}

type Listener func(Event)

// Notifier fans events out to an ordered list of listeners. Listeners are
// registered explicitly at wiring time; there is no implicit dispatch.
type Notifier struct {
	mu        sync.RWMutex
	listeners []Listener
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Subscribe(l Listener) {
	if l == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, l)
}

func (n *Notifier) Emit(event Event) {
	n.mu.RLock()
	listeners := make([]Listener, len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.RUnlock()

	for _, l := range listeners {
		l(event)
	}
}
