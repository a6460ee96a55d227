package datatable

import (
	"sync"
	"time"

	"mondedesparfum.com/admin/internal/apiclient"
)

type registryKey struct {
	owner string
	table string
}

type registryEntry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Registry hands out one Controller per (owner, table) so that overlapping
// requests from the same admin are ordered against each other.
type Registry struct {
	mu           sync.Mutex
	entries      map[registryKey]*registryEntry
	idle         time.Duration
	now          func() time.Time
	onSuperseded SupersededHook
}

func NewRegistry(idle time.Duration, onSuperseded SupersededHook) *Registry {
	return &Registry{
		entries:      map[registryKey]*registryEntry{},
		idle:         idle,
		now:          time.Now,
		onSuperseded: onSuperseded,
	}
}

// Controller returns the controller for owner and t, creating it on first use.
func (r *Registry) Controller(owner string, t *Table, api apiclient.Doer) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked()

	key := registryKey{owner: owner, table: t.ID}
	e, ok := r.entries[key]
	if !ok {
		ctrl := NewController(t, api)
		ctrl.OnSuperseded = r.onSuperseded
		e = &registryEntry{ctrl: ctrl}
		r.entries[key] = e
	}
	e.ctrl.mu.Lock()
	e.ctrl.api = api
	e.ctrl.mu.Unlock()
	e.lastSeen = r.now()
	return e.ctrl
}

// Forget drops every controller of owner, e.g. on logout.
func (r *Registry) Forget(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.entries {
		if k.owner == owner {
			delete(r.entries, k)
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) sweepLocked() {
	if r.idle <= 0 {
		return
	}
	cutoff := r.now().Add(-r.idle)
	for k, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, k)
		}
	}
}
