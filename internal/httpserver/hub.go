package httpserver

import "sync"

// hub fans session events out to websocket subscribers, per session.
// A slow subscriber misses events rather than blocking the publisher.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[chan []byte]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[chan []byte]struct{})}
}

func (h *hub) subscribe(id string) chan []byte {
	ch := make(chan []byte, 16)
	h.mu.Lock()
	if h.subs[id] == nil {
		h.subs[id] = make(map[chan []byte]struct{})
	}
	h.subs[id][ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *hub) unsubscribe(id string, ch chan []byte) {
	h.mu.Lock()
	if set, ok := h.subs[id]; ok {
		if _, ok := set[ch]; ok {
			delete(set, ch)
			close(ch)
		}
		if len(set) == 0 {
			delete(h.subs, id)
		}
	}
	h.mu.Unlock()
}

func (h *hub) publish(id string, event []byte) {
	h.mu.Lock()
	for ch := range h.subs[id] {
		select {
		case ch <- event:
		default:
		}
	}
	h.mu.Unlock()
}

// close ends every stream for a session.
func (h *hub) close(id string) {
	h.mu.Lock()
	for ch := range h.subs[id] {
		close(ch)
	}
	delete(h.subs, id)
	h.mu.Unlock()
}

func (h *hub) closeAll() {
	h.mu.Lock()
	for id, set := range h.subs {
		for ch := range set {
			close(ch)
		}
		delete(h.subs, id)
	}
	h.mu.Unlock()
}

// subscribers counts open streams for a session.
func (h *hub) subscribers(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[id])
}
