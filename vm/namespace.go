package vm

import (
	"errors"
	"fmt"

	"github.com/gogpu/lilac/internal/block"
)

// MaxNameLen is the longest valid variable, constant or operation name.
const MaxNameLen = 31

// MaxNameLimit is the largest namespace capacity.
const MaxNameLimit = 16384

// DefaultNameLimit is the namespace capacity used when none is configured.
const DefaultNameLimit = 1024

// ValidName reports whether name is 1 to 31 ASCII characters, starts with a
// letter and continues with letters, digits or underscores.
func ValidName(name string) bool {
	if len(name) < 1 || len(name) > MaxNameLen {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case i > 0 && (c >= '0' && c <= '9' || c == '_'):
		default:
			return false
		}
	}
	return true
}

// Namespace maps declared names to value slots.
//
// Slot i holds a value and bit i of the flag words; a set bit marks a
// constant. Names stay bound for the life of the namespace.
type Namespace struct {
	index  map[string]int
	values *block.Block[Variant]
	flags  *block.Block[uint32]
}

// NewNamespace creates a namespace holding at most limit names.
func NewNamespace(limit int) *Namespace {
	limit = min(max(limit, 0), MaxNameLimit)
	return &Namespace{
		index:  make(map[string]int),
		values: block.New[Variant](limit),
		flags:  block.New[uint32]((limit + 31) / 32),
	}
}

// Len returns the number of declared names.
func (ns *Namespace) Len() int { return ns.values.Len() }

// Declare binds name to v. It fails if name is invalid, already declared,
// or the namespace is full.
func (ns *Namespace) Declare(name string, constant bool, v Variant) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if _, ok := ns.index[name]; ok {
		return fmt.Errorf("%w: %s", ErrRedeclared, name)
	}
	i := ns.values.Len()
	if err := ns.values.Push(v); err != nil {
		return full(err, ErrNamespaceFull)
	}
	if i%32 == 0 {
		if err := ns.flags.Push(0); err != nil {
			return full(err, ErrNamespaceFull)
		}
	}
	if constant {
		w := ns.flags.At(i / 32)
		ns.flags.Set(i/32, w|1<<(i%32))
	}
	ns.index[name] = i
	return nil
}

// Assign overwrites the value of a declared variable.
func (ns *Namespace) Assign(name string, v Variant) error {
	i, err := ns.slot(name)
	if err != nil {
		return err
	}
	if ns.constant(i) {
		return fmt.Errorf("%w: %s", ErrConstant, name)
	}
	ns.values.Set(i, v)
	return nil
}

// Get returns the value bound to name.
func (ns *Namespace) Get(name string) (Variant, error) {
	i, err := ns.slot(name)
	if err != nil {
		return Variant{}, err
	}
	return ns.values.At(i), nil
}

// IsConstant reports whether name was declared as a constant.
func (ns *Namespace) IsConstant(name string) (bool, error) {
	i, err := ns.slot(name)
	if err != nil {
		return false, err
	}
	return ns.constant(i), nil
}

func (ns *Namespace) slot(name string) (int, error) {
	if !ValidName(name) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	i, ok := ns.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUndeclared, name)
	}
	return i, nil
}

func (ns *Namespace) constant(i int) bool {
	return ns.flags.At(i/32)&(1<<(i%32)) != 0
}

// full maps block.ErrFull to the caller's overflow error.
func full(err, overflow error) error {
	if errors.Is(err, block.ErrFull) {
		return overflow
	}
	return err
}
