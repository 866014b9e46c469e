package vm

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gogpu/lilac/graph"
	"github.com/gogpu/lilac/internal/block"
)

// Limits on the machine stacks.
const (
	DefaultStackHeight = 64
	MaxStackHeight     = 16384
	MaxGroupDepth      = 16384
)

type runState uint8

const (
	stateIdle runState = iota
	stateRunning
	stateDone
)

// machineOptions holds configuration for New.
type machineOptions struct {
	stackHeight int
	nameLimit   int
	logger      *slog.Logger
}

// Option configures a Machine.
type Option func(*machineOptions)

// WithStackHeight sets the operand stack capacity, clamped to 1..MaxStackHeight.
func WithStackHeight(n int) Option {
	return func(o *machineOptions) {
		o.stackHeight = min(max(n, 1), MaxStackHeight)
	}
}

// WithNameLimit sets the namespace capacity, clamped to 0..MaxNameLimit.
func WithNameLimit(n int) Option {
	return func(o *machineOptions) {
		o.nameLimit = min(max(n, 0), MaxNameLimit)
	}
}

// WithLogger sets the logger for run diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *machineOptions) {
		o.logger = l
	}
}

// Machine interprets one script.
//
// A Machine runs once. Operation callbacks access its operand stack through
// the typed Pop and Push methods, which fail outside of Run.
type Machine struct {
	reg    *Registry
	arena  *graph.Arena
	log    *slog.Logger
	stack  *block.Block[Variant]
	groups *block.Block[int]
	names  *Namespace
	state  runState
	line   int
}

// New creates a machine that dispatches operations through reg and defines
// nodes in arena.
func New(reg *Registry, arena *graph.Arena, opts ...Option) *Machine {
	o := machineOptions{
		stackHeight: DefaultStackHeight,
		nameLimit:   DefaultNameLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{
		reg:    reg,
		arena:  arena,
		log:    o.logger,
		stack:  block.New[Variant](o.stackHeight),
		groups: block.New[int](MaxGroupDepth),
		names:  NewNamespace(o.nameLimit),
	}
}

// Run consumes entities from src until end of input and returns the single
// node left on the stack.
func (m *Machine) Run(src EntitySource) (graph.Node, error) {
	if m.state != stateIdle {
		return 0, ErrAlreadyRun
	}
	m.state = stateRunning
	defer func() { m.state = stateDone }()
	m.reg.Freeze()

	for {
		ent, err := src.Next()
		if err != nil {
			var le *LineError
			if errors.As(err, &le) {
				return 0, err
			}
			return 0, &LineError{Line: m.line, Err: err}
		}
		if ent.Line > 0 {
			m.line = ent.Line
		}
		if ent.Kind == EntityEOF {
			root, err := m.finish()
			if err != nil {
				return 0, &LineError{Line: m.line, Err: err}
			}
			m.log.Debug("vm: script compiled",
				"line", m.line,
				"nodes", m.arena.Len(),
				"names", m.names.Len())
			return root, nil
		}
		if err := m.step(ent); err != nil {
			return 0, &LineError{Line: m.line, Err: err}
		}
	}
}

func (m *Machine) step(ent Entity) error {
	switch ent.Kind {
	case EntityString:
		return m.handleString(ent)
	case EntityNumeric:
		return m.handleNumeric(ent)
	case EntityVariable, EntityConstant:
		return m.handleDeclare(ent)
	case EntityAssign:
		return m.handleAssign(ent)
	case EntityGet:
		v, err := m.names.Get(ent.Key)
		if err != nil {
			return err
		}
		return m.push(v)
	case EntityBeginGroup:
		if err := m.groups.Push(m.stack.Len()); err != nil {
			return full(err, ErrGroupOverflow)
		}
		return nil
	case EntityEndGroup:
		return m.handleEndGroup()
	case EntityArray:
		return m.PushFloat(float64(ent.Count))
	case EntityOperation:
		if !ValidName(ent.Key) {
			return fmt.Errorf("%w: %q", ErrInvalidName, ent.Key)
		}
		if err := m.reg.Dispatch(m, ent.Key); err != nil {
			if errors.Is(err, ErrUnknownOp) {
				return err
			}
			return fmt.Errorf("%s: %w", ent.Key, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnexpectedEntity, ent.Kind)
	}
}

func (m *Machine) handleString(ent Entity) error {
	if ent.Key != "" {
		return ErrStringPrefix
	}
	if ent.Form == Curly {
		c, err := parseColor(ent.Value)
		if err != nil {
			return err
		}
		return m.PushColor(c)
	}
	for i := 0; i < len(ent.Value); i++ {
		if c := ent.Value[i]; c < 0x20 || c > 0x7e {
			return ErrBadString
		}
	}
	return m.PushString(ent.Value)
}

// parseColor reads exactly eight hex digits as 0xAARRGGBB.
func parseColor(s string) (graph.Color, error) {
	if len(s) != 8 {
		return 0, fmt.Errorf("%w: {%s}", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: {%s}", ErrBadColor, s)
	}
	return graph.Color(v), nil
}

func (m *Machine) handleNumeric(ent Entity) error {
	f, err := strconv.ParseFloat(ent.Key, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBadNumeric, ent.Key)
	}
	v, err := FloatValue(f)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBadNumeric, ent.Key)
	}
	return m.push(v)
}

func (m *Machine) handleDeclare(ent Entity) error {
	if m.visible() < 1 {
		return fmt.Errorf("%w: declaration of %s needs a value", ErrUnderflow, ent.Key)
	}
	v, _ := m.stack.Peek()
	if err := m.names.Declare(ent.Key, ent.Kind == EntityConstant, v); err != nil {
		return err
	}
	_, _ = m.stack.Pop()
	return nil
}

func (m *Machine) handleAssign(ent Entity) error {
	if m.visible() < 1 {
		return fmt.Errorf("%w: assignment to %s needs a value", ErrUnderflow, ent.Key)
	}
	v, _ := m.stack.Peek()
	if err := m.names.Assign(ent.Key, v); err != nil {
		return err
	}
	_, _ = m.stack.Pop()
	return nil
}

func (m *Machine) handleEndGroup() error {
	saved, err := m.groups.Pop()
	if err != nil {
		return fmt.Errorf("%w: unmatched end of group", ErrGroupBalance)
	}
	if n := m.stack.Len() - saved; n != 1 {
		return fmt.Errorf("%w: group left %d values", ErrGroupBalance, n)
	}
	return nil
}

func (m *Machine) finish() (graph.Node, error) {
	if m.groups.Len() > 0 {
		return 0, ErrOpenGroup
	}
	if m.stack.Len() != 1 {
		return 0, fmt.Errorf("%w: %d values remain", ErrResult, m.stack.Len())
	}
	v, _ := m.stack.Pop()
	n, ok := v.AsNode()
	if !ok {
		return 0, fmt.Errorf("%w: result is a %s", ErrResult, v.Type())
	}
	return n, nil
}

// visible returns the number of stack values not hidden by open groups.
func (m *Machine) visible() int {
	top, err := m.groups.Peek()
	if err != nil {
		return m.stack.Len()
	}
	return m.stack.Len() - top
}

// Line returns the script line of the entity being processed.
func (m *Machine) Line() int { return m.line }

// Height returns the number of visible operand stack values.
func (m *Machine) Height() int {
	if m.state != stateRunning {
		return 0
	}
	return m.visible()
}

// Type returns the type of the top visible value, or TypeUndefined when
// nothing is visible.
func (m *Machine) Type() Type {
	if m.state != stateRunning || m.visible() < 1 {
		return TypeUndefined
	}
	v, _ := m.stack.Peek()
	return v.Type()
}

func (m *Machine) push(v Variant) error {
	if m.state != stateRunning {
		return ErrNotRunning
	}
	if err := m.stack.Push(v); err != nil {
		return full(err, ErrStackOverflow)
	}
	return nil
}

func (m *Machine) pop(want Type) (Variant, error) {
	if m.state != stateRunning {
		return Variant{}, ErrNotRunning
	}
	if m.visible() < 1 {
		return Variant{}, ErrUnderflow
	}
	v, _ := m.stack.Peek()
	if want != TypeUndefined && v.Type() != want {
		return Variant{}, fmt.Errorf("%w: expected %s, found %s", ErrTypeMismatch, want, v.Type())
	}
	_, _ = m.stack.Pop()
	return v, nil
}

// PushFloat pushes a Float. Non-finite values are rejected.
func (m *Machine) PushFloat(f float64) error {
	v, err := FloatValue(f)
	if err != nil {
		return err
	}
	return m.push(v)
}

// PopFloat pops a Float.
func (m *Machine) PopFloat() (float64, error) {
	v, err := m.pop(TypeFloat)
	f, _ := v.AsFloat()
	return f, err
}

// PushColor pushes a Color.
func (m *Machine) PushColor(c graph.Color) error { return m.push(ColorValue(c)) }

// PopColor pops a Color.
func (m *Machine) PopColor() (graph.Color, error) {
	v, err := m.pop(TypeColor)
	c, _ := v.AsColor()
	return c, err
}

// PushString pushes a String.
func (m *Machine) PushString(s string) error {
	v, err := StringValue(s)
	if err != nil {
		return err
	}
	return m.push(v)
}

// PopString pops a String.
func (m *Machine) PopString() (string, error) {
	v, err := m.pop(TypeString)
	s, _ := v.AsString()
	return s, err
}

// PushNode pushes a Node.
func (m *Machine) PushNode(n graph.Node) error { return m.push(NodeValue(n)) }

// PopNode pops a Node.
func (m *Machine) PopNode() (graph.Node, error) {
	v, err := m.pop(TypeNode)
	n, _ := v.AsNode()
	return n, err
}

// Dup pushes a copy of the top visible value.
func (m *Machine) Dup() error {
	if m.state != stateRunning {
		return ErrNotRunning
	}
	if m.visible() < 1 {
		return ErrUnderflow
	}
	v, _ := m.stack.Peek()
	return m.push(v)
}

// Drop discards the top visible value.
func (m *Machine) Drop() error {
	_, err := m.pop(TypeUndefined)
	return err
}

// Define adds a node to the graph being built.
func (m *Machine) Define(ev graph.Evaluator, depth int) (graph.Node, error) {
	if m.state != stateRunning {
		return 0, ErrNotRunning
	}
	return m.arena.Define(ev, depth)
}

// Depth returns the stored depth of n.
func (m *Machine) Depth(n graph.Node) (int, error) { return m.arena.Depth(n) }

// DepthAbove returns one more than the greatest depth among children.
func (m *Machine) DepthAbove(children ...graph.Node) (int, error) {
	return m.arena.DepthAbove(children...)
}
