package hostfuncs

import (
	"sync"

	"github.com/fornjot/modelhost/domain/entities"
)

// HandleTable maps opaque context handles to Argument Contexts.
// Guests only ever see the handle; every access goes through the host.
type HandleTable struct {
	entries map[entities.ContextHandle]*Arguments
	next    entities.ContextHandle
	mu      sync.RWMutex
}

// NewHandleTable creates an empty table.
func NewHandleTable() *HandleTable {
	return &HandleTable{entries: make(map[entities.ContextHandle]*Arguments)}
}

// Insert stores args under a fresh handle. Handles are never reused and never zero.
func (t *HandleTable) Insert(args *Arguments) entities.ContextHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	h := t.next
	t.entries[h] = args
	return h
}

// Lookup returns the context stored under h.
func (t *HandleTable) Lookup(h entities.ContextHandle) (*Arguments, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	args, ok := t.entries[h]
	return args, ok
}

// Remove drops h. Removing an unknown handle is a no-op.
func (t *HandleTable) Remove(h entities.ContextHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, h)
}

// Len returns the number of live handles.
func (t *HandleTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
