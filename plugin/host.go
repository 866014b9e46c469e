// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package plugin

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/lilac/render"
	"github.com/gogpu/lilac/script"
	"github.com/gogpu/lilac/vm"
)

// ErrHostClosed is returned when a plugin registers after initialization.
var ErrHostClosed = errors.New("plugin: host is closed")

// Settings describes the run a plugin is initialized for.
type Settings struct {
	// Width and Height are the output raster dimensions.
	Width, Height int

	// Limits are the effective run limits after header overrides.
	script.Limits

	// FontPath is the default font file for text nodes. Empty selects the
	// built-in font.
	FontPath string
}

// Host is handed to each plugin during initialization.
type Host struct {
	ops      *vm.Registry
	loop     *render.Loop
	settings Settings
	log      *slog.Logger
	cleanups []func() error
	closed   bool
}

// NewHost creates a host that registers operations in ops and preparation
// callbacks in loop.
func NewHost(ops *vm.Registry, loop *render.Loop, s Settings, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Host{ops: ops, loop: loop, settings: s, log: logger}
}

// Register adds a script operation.
func (h *Host) Register(name string, op vm.OpFunc) error {
	if h.closed {
		return ErrHostClosed
	}
	return h.ops.Register(name, op)
}

// Prepare adds a callback that runs after the graph is built and before
// the first pixel.
func (h *Host) Prepare(fn render.PrepFunc) error {
	if h.closed {
		return ErrHostClosed
	}
	return h.loop.Prepare(fn)
}

// Cleanup adds a callback that runs when the run ends, whether or not
// rendering succeeded. Cleanups run in reverse registration order.
func (h *Host) Cleanup(fn func() error) error {
	if h.closed {
		return ErrHostClosed
	}
	if fn == nil {
		return errors.New("plugin: nil cleanup")
	}
	h.cleanups = append(h.cleanups, fn)
	return nil
}

// Settings returns the run settings.
func (h *Host) Settings() Settings { return h.settings }

// Logger returns the engine logger.
func (h *Host) Logger() *slog.Logger { return h.log }

// Init calls every plugin in order, then closes the host to further
// registration.
func (h *Host) Init(plugins ...Plugin) error {
	if h.closed {
		return ErrHostClosed
	}
	defer func() { h.closed = true }()
	for _, p := range plugins {
		if err := p.Init(h); err != nil {
			return fmt.Errorf("plugin %s: %w", p.Name, err)
		}
		h.log.Debug("plugin: initialized", "name", p.Name)
	}
	return nil
}

// RunCleanups calls the registered cleanups once, newest first, and joins
// their errors.
func (h *Host) RunCleanups() error {
	var errs []error
	for i := len(h.cleanups) - 1; i >= 0; i-- {
		if err := h.cleanups[i](); err != nil {
			errs = append(errs, err)
		}
	}
	h.cleanups = nil
	return errors.Join(errs...)
}
