package graph

import (
	"errors"
	"strings"
	"testing"
)

// stubFrame is a Frame fixed at one pixel.
type stubFrame struct {
	arena  *Arena
	active bool
	calls  int
}

func (f *stubFrame) Mode() bool  { return f.active }
func (f *stubFrame) Offset() int { return 0 }
func (f *stubFrame) X() int      { return 0 }
func (f *stubFrame) Y() int      { return 0 }
func (f *stubFrame) Width() int  { return 1 }
func (f *stubFrame) Height() int { return 1 }
func (f *stubFrame) Invoke(n Node) (Color, error) {
	f.calls++
	return f.arena.Evaluate(n, f)
}

func solid(c Color) Evaluator {
	return EvalFunc(func(Frame) (Color, error) { return c, nil })
}

func TestDefineDepthChecks(t *testing.T) {
	a := NewArena(4)
	tests := []struct {
		name  string
		ev    Evaluator
		depth int
		want  error
	}{
		{"leaf", solid(1), 1, nil},
		{"at limit", solid(1), 4, nil},
		{"zero", solid(1), 0, ErrDepthRange},
		{"negative", solid(1), -3, ErrDepthRange},
		{"over limit", solid(1), 5, ErrDepthLimit},
		{"nil evaluator", nil, 1, ErrNilEvaluator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := a.Define(tt.ev, tt.depth)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Define() error = %v", err)
				}
				if n == 0 {
					t.Error("Define() returned the zero handle")
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Define() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDepthLimitMessageNamesMaximum(t *testing.T) {
	a := NewArena(7)
	_, err := a.Define(solid(0), 8)
	if err == nil || !strings.Contains(err.Error(), "maximum depth: 7") {
		t.Errorf("Define() error = %v, want mention of maximum depth 7", err)
	}
}

func TestDepthReturnsStoredDepth(t *testing.T) {
	a := NewArena(DefaultMaxDepth)
	for d := 1; d <= 5; d++ {
		n, err := a.Define(solid(0), d)
		if err != nil {
			t.Fatal(err)
		}
		got, err := a.Depth(n)
		if err != nil {
			t.Fatalf("Depth(%d): %v", n, err)
		}
		if got != d {
			t.Errorf("Depth(%d) = %d, want %d", n, got, d)
		}
	}
	if _, err := a.Depth(0); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("Depth(0) error = %v, want ErrInvalidNode", err)
	}
	if _, err := a.Depth(99); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("Depth(99) error = %v, want ErrInvalidNode", err)
	}
}

func TestDepthAboveChainFailsPastLimit(t *testing.T) {
	const limit = 6
	a := NewArena(limit)
	n, err := a.Define(solid(0), 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := 2; ; i++ {
		d, err := a.DepthAbove(n)
		if err != nil {
			t.Fatal(err)
		}
		if d != i {
			t.Fatalf("DepthAbove = %d, want %d", d, i)
		}
		next, err := a.Define(solid(0), d)
		if d > limit {
			if !errors.Is(err, ErrDepthLimit) {
				t.Fatalf("Define(depth %d) error = %v, want ErrDepthLimit", d, err)
			}
			break
		}
		if err != nil {
			t.Fatalf("Define(depth %d): %v", d, err)
		}
		n = next
	}
	if got, _ := a.DepthAbove(); got != 1 {
		t.Errorf("DepthAbove() with no children = %d, want 1", got)
	}
}

func TestEvaluateRequiresRendering(t *testing.T) {
	a := NewArena(DefaultMaxDepth)
	leaf, _ := a.Define(solid(0xff112233), 1)
	fr := &stubFrame{arena: a}
	if _, err := a.Evaluate(leaf, fr); !errors.Is(err, ErrNotRendering) {
		t.Errorf("Evaluate outside rendering = %v, want ErrNotRendering", err)
	}
	if _, err := a.Evaluate(leaf, nil); !errors.Is(err, ErrNotRendering) {
		t.Errorf("Evaluate with nil frame = %v, want ErrNotRendering", err)
	}
	fr.active = true
	c, err := a.Evaluate(leaf, fr)
	if err != nil || c != 0xff112233 {
		t.Errorf("Evaluate = %v, %v, want {ff112233}, nil", c, err)
	}
}

func TestEvaluateComposite(t *testing.T) {
	a := NewArena(DefaultMaxDepth)
	leaf, _ := a.Define(solid(0xff00ff00), 1)
	inv, err := a.Define(EvalFunc(func(fr Frame) (Color, error) {
		c, err := fr.Invoke(leaf)
		if err != nil {
			return 0, err
		}
		return c ^ 0x00ffffff, nil
	}), 2)
	if err != nil {
		t.Fatal(err)
	}
	fr := &stubFrame{arena: a, active: true}
	c, err := a.Evaluate(inv, fr)
	if err != nil {
		t.Fatal(err)
	}
	if c != 0xffff00ff {
		t.Errorf("Evaluate = %v, want {ffff00ff}", c)
	}
	if fr.calls != 1 {
		t.Errorf("child invocations = %d, want 1", fr.calls)
	}
}
