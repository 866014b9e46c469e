package vm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/lilac/internal/block"
)

// MaxOperations is the capacity of a Registry.
const MaxOperations = 16384

// OpFunc is a script operation. It reads and writes the operand stack of m.
type OpFunc func(m *Machine) error

// Registry maps operation names to callbacks.
//
// Plugins fill the registry before interpretation begins. Run freezes it,
// after which Register fails and the table is read-only.
type Registry struct {
	mu     sync.RWMutex
	ops    *block.Block[OpFunc]
	index  map[string]int
	frozen bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ops:   block.New[OpFunc](MaxOperations),
		index: make(map[string]int),
	}
}

// Register adds an operation under name.
func (r *Registry) Register(name string, fn OpFunc) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if fn == nil {
		return fmt.Errorf("%w: %s", ErrNilOp, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: %s", ErrRegistryFrozen, name)
	}
	if _, ok := r.index[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateOp, name)
	}
	if err := r.ops.Push(fn); err != nil {
		return full(err, ErrTooManyOps)
	}
	r.index[name] = r.ops.Len() - 1
	return nil
}

// Freeze closes the registry to further registration.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns the callback registered under name.
func (r *Registry) Lookup(name string) (OpFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.ops.At(i), true
}

// Dispatch calls the operation registered under name on m.
func (r *Registry) Dispatch(m *Machine, name string) error {
	fn, ok := r.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOp, name)
	}
	return fn(m)
}

// Names returns all registered operation names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.index))
	for name := range r.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ops.Len()
}
