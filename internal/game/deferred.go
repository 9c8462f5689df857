package game

import (
	"sync"
	"time"
)

// Deferred runs completion callbacks after a fixed pacing delay, one pending
// callback per session. Cancel suppresses a callback that has not run yet.
type Deferred struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func NewDeferred(delay time.Duration) *Deferred {
	return &Deferred{delay: delay, pending: make(map[string]*time.Timer)}
}

// Schedule arranges for fn to run after the delay. A second Schedule for the
// same id replaces the first.
func (d *Deferred) Schedule(id string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.pending[id]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		cur, ok := d.pending[id]
		if !ok || cur != t {
			d.mu.Unlock()
			return
		}
		delete(d.pending, id)
		d.mu.Unlock()
		fn()
	})
	d.pending[id] = t
}

// Cancel drops the pending callback for id. It reports whether one was pending.
func (d *Deferred) Cancel(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.pending[id]
	if !ok {
		return false
	}
	t.Stop()
	delete(d.pending, id)
	return true
}

// Pending reports whether a callback for id is waiting.
func (d *Deferred) Pending(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[id]
	return ok
}

// Stop cancels everything; used on shutdown.
func (d *Deferred) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, t := range d.pending {
		t.Stop()
		delete(d.pending, id)
	}
}
