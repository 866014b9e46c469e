// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package plugin

import (
	"sort"
	"sync"
)

// Func initializes a node type for one run.
type Func func(h *Host) error

// Plugin is a named Func.
type Plugin struct {
	Name string
	Init Func
}

// globalRegistry holds the plugins registered by init functions.
var globalRegistry = &Registry{}

// Registry is a set of named plugins.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Func
}

// NewRegistry creates an empty registry.
// Most code should use the package registry via Register and Default.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Func)}
}

// Register adds fn to the package registry. Registering an existing name
// replaces the previous entry.
func Register(name string, fn Func) {
	globalRegistry.Register(name, fn)
}

// Default returns the plugins in the package registry, sorted by name.
func Default() []Plugin {
	return globalRegistry.Plugins()
}

// Register adds fn under name, replacing any previous entry.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[string]Func)
	}
	r.entries[name] = fn
}

// Unregister removes name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Plugins returns every entry sorted by name.
func (r *Registry) Plugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Plugin, 0, len(r.entries))
	for name, fn := range r.entries {
		out = append(out, Plugin{Name: name, Init: fn})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
