package graph

import (
	"errors"
	"fmt"
)

// Graph errors.
var (
	// ErrDepthRange is returned when a node depth is less than one.
	ErrDepthRange = errors.New("graph: node depth must be at least one")

	// ErrDepthLimit is returned when a node depth exceeds the arena limit.
	ErrDepthLimit = errors.New("graph: graph depth exceeded")

	// ErrNilEvaluator is returned when defining a node without an evaluator.
	ErrNilEvaluator = errors.New("graph: nil evaluator")

	// ErrInvalidNode is returned for a handle the arena did not issue.
	ErrInvalidNode = errors.New("graph: invalid node")

	// ErrNotRendering is returned when a node is evaluated outside rendering.
	ErrNotRendering = errors.New("graph: node invoked outside of rendering")
)

// DefaultMaxDepth is the graph depth limit used when none is configured.
const DefaultMaxDepth = 32

// MaxDepthLimit is the largest graph depth limit an arena accepts.
const MaxDepthLimit = 16384

// Evaluator computes the color of one pixel.
//
// Implementations hold their own state and must not change it in ways that
// make results depend on anything but the frame position and the results of
// invoked children.
type Evaluator interface {
	Evaluate(fr Frame) (Color, error)
}

// EvalFunc adapts a plain function to Evaluator.
type EvalFunc func(fr Frame) (Color, error)

// Evaluate calls f(fr).
func (f EvalFunc) Evaluate(fr Frame) (Color, error) { return f(fr) }

// Node is a handle to a node stored in an Arena. The zero Node is invalid.
type Node uint32

type entry struct {
	ev    Evaluator
	depth int
}

// Arena owns every node of one compiled script.
type Arena struct {
	nodes    []entry
	maxDepth int
}

// NewArena creates an arena whose nodes may not exceed maxDepth.
// Values outside 1..MaxDepthLimit are clamped.
func NewArena(maxDepth int) *Arena {
	return &Arena{maxDepth: min(max(maxDepth, 1), MaxDepthLimit)}
}

// MaxDepth returns the configured depth limit.
func (a *Arena) MaxDepth() int { return a.maxDepth }

// Len returns the number of defined nodes.
func (a *Arena) Len() int { return len(a.nodes) }

// Define adds a node and returns its handle.
func (a *Arena) Define(ev Evaluator, depth int) (Node, error) {
	if ev == nil {
		return 0, ErrNilEvaluator
	}
	if depth < 1 {
		return 0, ErrDepthRange
	}
	if depth > a.maxDepth {
		return 0, fmt.Errorf("%w: depth %d, maximum depth: %d", ErrDepthLimit, depth, a.maxDepth)
	}
	a.nodes = append(a.nodes, entry{ev: ev, depth: depth})
	return Node(len(a.nodes)), nil
}

func (a *Arena) lookup(n Node) (*entry, error) {
	if n == 0 || int(n) > len(a.nodes) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNode, n)
	}
	return &a.nodes[n-1], nil
}

// Depth returns the stored depth of n.
func (a *Arena) Depth(n Node) (int, error) {
	e, err := a.lookup(n)
	if err != nil {
		return 0, err
	}
	return e.depth, nil
}

// DepthAbove returns one more than the greatest depth among children,
// or 1 when there are none. This is the depth a composite node should use.
func (a *Arena) DepthAbove(children ...Node) (int, error) {
	d := 0
	for _, c := range children {
		cd, err := a.Depth(c)
		if err != nil {
			return 0, err
		}
		d = max(d, cd)
	}
	return d + 1, nil
}

// Evaluate runs the evaluator of n against fr.
func (a *Arena) Evaluate(n Node, fr Frame) (Color, error) {
	if fr == nil || !fr.Mode() {
		return 0, ErrNotRendering
	}
	e, err := a.lookup(n)
	if err != nil {
		return 0, err
	}
	return e.ev.Evaluate(fr)
}
