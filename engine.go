package lilac

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gogpu/lilac/graph"
	_ "github.com/gogpu/lilac/nodes" // register built-in node types
	"github.com/gogpu/lilac/plugin"
	"github.com/gogpu/lilac/render"
	"github.com/gogpu/lilac/script"
	"github.com/gogpu/lilac/vm"
)

// Engine compiles and renders scripts. An Engine holds only configuration,
// so one Engine may compile any number of scripts, including concurrently.
type Engine struct {
	log     *slog.Logger
	plugins []plugin.Plugin
	config  Config
}

// New creates an engine.
//
// Example:
//
//	eng := lilac.New()
//	raster, err := eng.Render(strings.NewReader(src))
//	if err != nil {
//	    log.Fatalf("lilac: %s: %v", lilac.Classify(err), err)
//	}
//	err = raster.Save("out.png")
func New(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	return &Engine{log: o.logger, plugins: o.plugins, config: o.config}
}

// Program is a compiled script: a node graph with its root and the
// preparation callbacks of every plugin. A Program renders at most once.
type Program struct {
	// Header is the script header with limits after config defaults and
	// metacommand overrides.
	Header script.Header

	log   *slog.Logger
	arena *graph.Arena
	root  graph.Node
	loop  *render.Loop
	host  *plugin.Host
	done  bool
}

// Compile reads the header and body of a script and builds its node graph.
// On success the caller must call Render or Close.
func (e *Engine) Compile(r io.Reader) (*Program, error) {
	rd := script.NewReader(r)
	h, err := script.ReadHeader(rd, e.config.Limits)
	if err != nil {
		return nil, err
	}
	if h.Version.Minor > 0 {
		e.log.Warn("lilac: script declares a newer minor version", "version", h.Version)
	}
	e.log.Debug("lilac: header read",
		"width", h.Width, "height", h.Height,
		"graph-depth", h.GraphDepth, "stack-height", h.StackHeight,
		"name-limit", h.NameLimit)

	ops := vm.NewRegistry()
	loop := render.NewLoop(e.log)
	host := plugin.NewHost(ops, loop, plugin.Settings{
		Width:    h.Width,
		Height:   h.Height,
		Limits:   h.Limits,
		FontPath: e.config.Text.Font,
	}, e.log)
	p := &Program{Header: h, log: e.log, loop: loop, host: host}

	if err := host.Init(e.plugins...); err != nil {
		return nil, errors.Join(err, p.Close())
	}

	p.arena = graph.NewArena(h.GraphDepth)
	m := vm.New(ops, p.arena,
		vm.WithStackHeight(h.StackHeight),
		vm.WithNameLimit(h.NameLimit),
		vm.WithLogger(e.log))
	p.root, err = m.Run(rd)
	if err != nil {
		return nil, errors.Join(err, p.Close())
	}
	return p, nil
}

// Render runs the preparation callbacks and evaluates the graph once per
// pixel. Cleanups run whether or not rendering succeeds; no partial raster
// is returned.
func (p *Program) Render() (*Raster, error) {
	if p.done {
		return nil, fmt.Errorf("lilac: %w", render.ErrLoopUsed)
	}
	dst := NewRaster(p.Header.Width, p.Header.Height)
	err := p.loop.Run(p.arena, p.root, dst)
	if err = errors.Join(err, p.Close()); err != nil {
		return nil, err
	}
	return dst, nil
}

// Close releases plugin resources without rendering. Close is idempotent.
func (p *Program) Close() error {
	if p.done {
		return nil
	}
	p.done = true
	if err := p.host.RunCleanups(); err != nil {
		p.log.Warn("lilac: cleanup failed", "err", err)
		return err
	}
	return nil
}

// Nodes returns the number of nodes in the compiled graph.
func (p *Program) Nodes() int {
	return p.arena.Len()
}

// Render compiles and renders a script.
func (e *Engine) Render(r io.Reader) (*Raster, error) {
	p, err := e.Compile(r)
	if err != nil {
		return nil, err
	}
	return p.Render()
}

// Operations returns the names of the operations the engine's plugins
// register, sorted.
func (e *Engine) Operations() ([]string, error) {
	ops := vm.NewRegistry()
	host := plugin.NewHost(ops, render.NewLoop(nil), plugin.Settings{
		Width:    1,
		Height:   1,
		Limits:   e.config.Limits,
		FontPath: e.config.Text.Font,
	}, e.log)
	err := host.Init(e.plugins...)
	if err = errors.Join(err, host.RunCleanups()); err != nil {
		return nil, err
	}
	return ops.Names(), nil
}
