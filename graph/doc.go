// Package graph holds the node graph that a script compiles into.
//
// A node is an Evaluator plus a depth, stored in an Arena and referenced by
// a Node handle. Nodes are appended bottom-up and never modified, so the
// graph is acyclic by construction and may share children freely.
//
// Evaluation happens only during rendering. The render loop hands each
// evaluator a Frame that reports the current pixel and lets composite nodes
// invoke their children:
//
//	type invert struct{ child graph.Node }
//
//	func (n invert) Evaluate(fr graph.Frame) (graph.Color, error) {
//		c, err := fr.Invoke(n.child)
//		if err != nil {
//			return 0, err
//		}
//		return c ^ 0x00ffffff, nil
//	}
//
// The depth of a node that references children must exceed the depth of
// every child; Arena.DepthAbove computes the conventional value. The arena
// limit on depth caps how deeply Invoke calls can nest.
package graph
