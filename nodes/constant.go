package nodes

import (
	"github.com/gogpu/lilac/graph"
	"github.com/gogpu/lilac/plugin"
	"github.com/gogpu/lilac/vm"
)

// constantNode is a leaf that returns one color.
type constantNode graph.Color

func (c constantNode) Evaluate(graph.Frame) (graph.Color, error) {
	return graph.Color(c), nil
}

// Constant registers the constant operation.
func Constant(h *plugin.Host) error {
	return h.Register("constant", opConstant)
}

func opConstant(m *vm.Machine) error {
	c, err := m.PopColor()
	if err != nil {
		return err
	}
	n, err := m.Define(constantNode(c), 1)
	if err != nil {
		return err
	}
	return m.PushNode(n)
}
