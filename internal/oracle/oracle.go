// Package oracle defines the pluggable relatedness judge: the external
// collaborator that decides whether a proposed word may legitimately connect
// to a given parent. The engine treats every oracle as a synchronous boolean
// gate; anything slow or remote belongs behind this interface.
package oracle

import (
	"context"
	"fmt"
	"sync"
)

// Oracle judges whether word is an acceptable association for parentWord
// within the puzzle's theme.
type Oracle interface {
	// Name returns the string key this oracle is registered under.
	Name() string
	// Related returns the verdict. An error means the oracle could not
	// judge at all; the engine decides fail-open vs fail-closed.
	Related(ctx context.Context, parentWord, word, theme string) (bool, error)
}

// Registry maps oracle names to implementations.
// It is safe for concurrent reads; Register should only be called at startup.
type Registry struct {
	mu      sync.RWMutex
	oracles map[string]Oracle
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{oracles: make(map[string]Oracle)}
}

// Register adds an oracle. Panics on duplicate name to surface
// misconfiguration early.
func (r *Registry) Register(o Oracle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.oracles[o.Name()]; exists {
		panic(fmt.Sprintf("oracle registry: duplicate name %q", o.Name()))
	}
	r.oracles[o.Name()] = o
}

// Get returns the oracle registered under name.
func (r *Registry) Get(name string) (Oracle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.oracles[name]
	if !ok {
		return nil, fmt.Errorf("no oracle registered under name %q", name)
	}
	return o, nil
}

// Names returns all registered oracle names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.oracles))
	for k := range r.oracles {
		out = append(out, k)
	}
	return out
}
