// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/lilac/graph"
	"github.com/gogpu/lilac/internal/block"
)

// MaxPrepCount is the maximum number of preparation callbacks per loop.
const MaxPrepCount = 1024

// Render loop errors.
var (
	// ErrLoopUsed is returned when Run is called a second time.
	ErrLoopUsed = errors.New("render: loop already ran")

	// ErrPrepareClosed is returned when Prepare is called after Run started.
	ErrPrepareClosed = errors.New("render: preparation callbacks can no longer be registered")

	// ErrTooManyPreps is returned when more than MaxPrepCount callbacks are registered.
	ErrTooManyPreps = errors.New("render: too many preparation callbacks")

	// ErrNilPrep is returned when registering a nil callback.
	ErrNilPrep = errors.New("render: nil preparation callback")

	// ErrNilTarget is returned when Run is given no target.
	ErrNilTarget = errors.New("render: nil target")

	// ErrEmptyTarget is returned when the target has no pixels.
	ErrEmptyTarget = errors.New("render: target has zero size")
)

// State is the phase of a Loop.
type State uint8

// Loop states.
const (
	StateIdle State = iota
	StatePreparing
	StateRendering
)

func (s State) String() string {
	switch s {
	case StatePreparing:
		return "preparing"
	case StateRendering:
		return "rendering"
	default:
		return "idle"
	}
}

// PrepFunc is a preparation callback. It runs once after the graph is built
// and before the first pixel is evaluated.
type PrepFunc func() error

// Loop evaluates a root node once per pixel. A Loop runs at most once.
//
// Loop is not safe for concurrent use.
type Loop struct {
	preps *block.Block[PrepFunc]
	state State
	used  bool
	log   *slog.Logger
	fr    frame
}

// NewLoop creates an idle loop. A nil logger discards output.
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		preps: block.New[PrepFunc](MaxPrepCount),
		log:   logger,
	}
}

// State returns the current phase.
func (l *Loop) State() State { return l.state }

// Frame returns the render-phase view of the loop. Outside of rendering its
// position queries return -1 and Invoke fails.
func (l *Loop) Frame() graph.Frame { return &l.fr }

// Prepare registers fn to run during the preparation phase.
func (l *Loop) Prepare(fn PrepFunc) error {
	if fn == nil {
		return ErrNilPrep
	}
	if l.used || l.state != StateIdle {
		return ErrPrepareClosed
	}
	if err := l.preps.Push(fn); err != nil {
		if errors.Is(err, block.ErrFull) {
			return ErrTooManyPreps
		}
		return err
	}
	return nil
}

// Run executes the preparation callbacks, then evaluates root for every
// pixel of dst in row-major order. The first error aborts the run.
func (l *Loop) Run(arena *graph.Arena, root graph.Node, dst Target) error {
	if l.used {
		return ErrLoopUsed
	}
	l.used = true
	if dst == nil {
		return ErrNilTarget
	}
	w, h := dst.Width(), dst.Height()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyTarget, w, h)
	}
	defer func() {
		l.fr = frame{}
		l.state = StateIdle
	}()

	l.state = StatePreparing
	start := time.Now()
	for i, fn := range l.preps.Slice() {
		if err := fn(); err != nil {
			return fmt.Errorf("render: preparation %d: %w", i, err)
		}
	}
	l.log.Debug("render: prepared", "callbacks", l.preps.Len(), "elapsed", time.Since(start))

	l.state = StateRendering
	l.fr = frame{arena: arena, active: true, width: w, height: h}
	start = time.Now()
	offset := 0
	for y := range h {
		for x := range w {
			l.fr.offset, l.fr.x, l.fr.y = offset, x, y
			c, err := arena.Evaluate(root, &l.fr)
			if err != nil {
				return fmt.Errorf("render: pixel (%d, %d): %w", x, y, err)
			}
			dst.Store(offset, c)
			offset++
		}
	}
	l.log.Info("render: complete", "width", w, "height", h, "elapsed", time.Since(start))
	return nil
}

// frame implements graph.Frame over the loop position.
type frame struct {
	arena  *graph.Arena
	active bool
	offset int
	x, y   int
	width  int
	height int
}

func (f *frame) Mode() bool { return f.active }

func (f *frame) Offset() int { return f.pos(f.offset) }

func (f *frame) X() int { return f.pos(f.x) }

func (f *frame) Y() int { return f.pos(f.y) }

func (f *frame) Width() int { return f.pos(f.width) }

func (f *frame) Height() int { return f.pos(f.height) }

func (f *frame) pos(v int) int {
	if !f.active {
		return -1
	}
	return v
}

func (f *frame) Invoke(n graph.Node) (graph.Color, error) {
	if !f.active {
		return 0, graph.ErrNotRendering
	}
	return f.arena.Evaluate(n, f)
}
