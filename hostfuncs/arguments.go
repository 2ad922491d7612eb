package hostfuncs

import (
	"maps"
	"sync"

	"github.com/fornjot/modelhost/domain/entities"
)

// Arguments is a model's Argument Context: a keyed string store written by the host
// before an invocation and read by the guest during it.
// The lock is held for a single merge or lookup only, never across a guest call.
type Arguments struct {
	values map[string]string
	mu     sync.Mutex
}

// NewArguments creates an empty Argument Context.
func NewArguments() *Arguments {
	return &Arguments{values: make(map[string]string)}
}

// SetMany merges pairs in order. Later pairs overwrite earlier ones and existing keys;
// nothing is ever removed.
func (a *Arguments) SetMany(pairs []entities.Argument) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range pairs {
		a.values[p.Key] = p.Value
	}
}

// Get returns the current value for name.
func (a *Arguments) Get(name string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.values[name]
	return v, ok
}

// Len returns the number of keys set.
func (a *Arguments) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.values)
}

// Snapshot returns a copy of the current contents.
func (a *Arguments) Snapshot() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return maps.Clone(a.values)
}

// Clear removes every key. The host never calls it on its own.
func (a *Arguments) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.values)
}
