package nodes

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/lilac/graph"
	"github.com/gogpu/lilac/internal/block"
	"github.com/gogpu/lilac/plugin"
	"github.com/gogpu/lilac/vm"
)

// MaxPaletteSize is the largest number of keys one select node maps.
const MaxPaletteSize = 16384

// Select errors.
var (
	// ErrSelectActive is returned by select_new while a select is being built.
	ErrSelectActive = errors.New("select: select_new while a select is in progress")

	// ErrSelectIdle is returned by select_map or select_finish without select_new.
	ErrSelectIdle = errors.New("select: no select in progress")

	// ErrPaletteFull is returned when mapping more than MaxPaletteSize keys.
	ErrPaletteFull = errors.New("select: too many mapped keys")

	// ErrDuplicateKey is returned when a key is mapped twice.
	ErrDuplicateKey = errors.New("select: duplicate key")
)

type paletteEntry struct {
	key  graph.Color
	node graph.Node
}

// selectNode evaluates index, then the node mapped to its color.
type selectNode struct {
	index   graph.Node
	def     graph.Node
	palette []paletteEntry
}

func (s *selectNode) Evaluate(fr graph.Frame) (graph.Color, error) {
	k, err := fr.Invoke(s.index)
	if err != nil {
		return 0, err
	}
	target := s.def
	i, found := slices.BinarySearchFunc(s.palette, k, func(e paletteEntry, k graph.Color) int {
		return cmp.Compare(e.key, k)
	})
	if found {
		target = s.palette[i].node
	}
	return fr.Invoke(target)
}

// selectBuilder accumulates one select node across operations.
type selectBuilder struct {
	active  bool
	index   graph.Node
	def     graph.Node
	records *block.Block[paletteEntry]
}

// Select registers select_new, select_map and select_finish.
func Select(h *plugin.Host) error {
	b := &selectBuilder{}
	for _, op := range []struct {
		name string
		fn   vm.OpFunc
	}{
		{"select_new", b.opNew},
		{"select_map", b.opMap},
		{"select_finish", b.opFinish},
	} {
		if err := h.Register(op.name, op.fn); err != nil {
			return err
		}
	}
	return nil
}

func (b *selectBuilder) opNew(m *vm.Machine) error {
	if b.active {
		return ErrSelectActive
	}
	def, err := m.PopNode()
	if err != nil {
		return err
	}
	index, err := m.PopNode()
	if err != nil {
		return err
	}
	b.active = true
	b.index, b.def = index, def
	b.records = block.New[paletteEntry](MaxPaletteSize)
	return nil
}

func (b *selectBuilder) opMap(m *vm.Machine) error {
	if !b.active {
		return ErrSelectIdle
	}
	n, err := m.PopNode()
	if err != nil {
		return err
	}
	key, err := m.PopColor()
	if err != nil {
		return err
	}
	if err := b.records.Push(paletteEntry{key: key, node: n}); err != nil {
		if errors.Is(err, block.ErrFull) {
			return ErrPaletteFull
		}
		return err
	}
	return nil
}

func (b *selectBuilder) opFinish(m *vm.Machine) error {
	if !b.active {
		return ErrSelectIdle
	}
	palette := slices.Clone(b.records.Slice())
	slices.SortFunc(palette, func(x, y paletteEntry) int { return cmp.Compare(x.key, y.key) })

	children := make([]graph.Node, 0, len(palette)+2)
	children = append(children, b.index, b.def)
	for i, e := range palette {
		if i > 0 && palette[i-1].key == e.key {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, e.key)
		}
		children = append(children, e.node)
	}
	depth, err := m.DepthAbove(children...)
	if err != nil {
		return err
	}
	n, err := m.Define(&selectNode{index: b.index, def: b.def, palette: palette}, depth)
	if err != nil {
		return err
	}
	b.active = false
	b.records = nil
	return m.PushNode(n)
}
