// Package vm implements the stack machine that turns a script entity stream
// into a node graph.
//
// A Machine consumes Entity values from an EntitySource one at a time. It
// keeps an operand stack of Variant values, a grouping stack that brackets
// sub-expressions, a Namespace of declared variables and constants, and a
// Registry of operations contributed by node-type plugins. Operations are
// plain functions that pop their arguments, build nodes with Define, and
// push results:
//
//	reg := vm.NewRegistry()
//	_ = reg.Register("constant", func(m *vm.Machine) error {
//		c, err := m.PopColor()
//		if err != nil {
//			return err
//		}
//		n, err := m.Define(solid(c), 1)
//		if err != nil {
//			return err
//		}
//		return m.PushNode(n)
//	})
//
// A run succeeds only when the input ends with exactly one Node on the
// stack. Every failure aborts the run and is reported with the script line
// that caused it.
package vm
