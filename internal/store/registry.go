package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/efreitasn/marketsim/internal/domain"
)

// Registry is a thread-safe get-or-create store keyed by a unique name. It
// guarantees a single canonical instance per name within a run: requesting
// an existing name returns the existing instance, never a new one. Entries
// live for the process lifetime; there is no deletion.
//
// One registry per entity kind is created by the composing application and
// passed to whoever needs to resolve names.
type Registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
	create  func(name string) T
}

// NewRegistry creates an empty registry that builds missing entries with
// create.
func NewRegistry[T any](create func(name string) T) *Registry[T] {
	return &Registry[T]{
		entries: make(map[string]T),
		create:  create,
	}
}

// GetOrCreate returns the canonical instance for name, creating it on first
// use. It returns domain.ErrInvalidName if the name is empty or
// all-whitespace. The check-then-create is atomic per registry.
func (r *Registry[T]) GetOrCreate(name string) (T, error) {
	var zero T
	if strings.TrimSpace(name) == "" {
		return zero, domain.ErrInvalidName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[name]; ok {
		return entry, nil
	}
	entry := r.create(name)
	r.entries[name] = entry
	return entry, nil
}

// Get returns the instance for name, if it exists.
func (r *Registry[T]) Get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	return entry, ok
}

// Names returns the registered names in lexicographic order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
