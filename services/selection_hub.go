package services

import "sync"

// SelectionHub fans selection changes out to subscribers of a session.
// Each subscriber has a one-slot buffer; a slow reader only ever sees the
// latest state. Versions only move forward: a state at or below the last
// published version of its session is dropped.
type SelectionHub struct {
	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
	last map[string]uint
}

type subscriber struct {
	ch   chan Selection
	once sync.Once
}

func NewSelectionHub() *SelectionHub {
	return &SelectionHub{
		subs: make(map[string]map[*subscriber]struct{}),
		last: make(map[string]uint),
	}
}

// Subscribe registers for changes of one session. The returned cancel
// func unregisters and closes the channel; it is safe to call twice.
func (h *SelectionHub) Subscribe(session string) (<-chan Selection, func()) {
	sub := &subscriber{ch: make(chan Selection, 1)}

	h.mu.Lock()
	if h.subs[session] == nil {
		h.subs[session] = make(map[*subscriber]struct{})
	}
	h.subs[session][sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		sub.once.Do(func() {
			h.mu.Lock()
			delete(h.subs[session], sub)
			if len(h.subs[session]) == 0 {
				delete(h.subs, session)
			}
			close(sub.ch)
			h.mu.Unlock()
		})
	}
	return sub.ch, cancel
}

// Publish delivers sel unless a newer or equal version of the session was
// already published.
func (h *SelectionHub) Publish(sel Selection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if last, ok := h.last[sel.SessionKey]; ok && sel.Version <= last {
		return
	}
	h.last[sel.SessionKey] = sel.Version
	h.deliver(sel)
}

func (h *SelectionHub) deliver(sel Selection) {
	for sub := range h.subs[sel.SessionKey] {
		select {
		case sub.ch <- sel:
			continue
		default:
		}
		// drop the pending state, latest wins
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- sel:
		default:
		}
	}
}

// Subscribers returns how many subscribers a session has.
func (h *SelectionHub) Subscribers(session string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[session])
}
