// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render runs a compiled node graph over every pixel of an image.
//
// # Phases
//
// A Loop moves through three states:
//
//   - Idle: preparation callbacks may be registered with Prepare.
//   - Preparing: every callback runs once, in registration order.
//   - Rendering: the root node is evaluated once per pixel.
//
// After Run the loop is idle again but spent; a second Run fails with
// ErrLoopUsed.
//
// # Pixel Order
//
// Pixels are produced in strictly increasing offset order: left to right
// within a row, rows top to bottom. Offset always equals Y*Width + X.
// Evaluators may rely on this order, for example to read a data stream
// sequentially without seeking.
//
// # Usage
//
//	loop := render.NewLoop(logger)
//	_ = loop.Prepare(func() error { return loadTextures() })
//	if err := loop.Run(arena, root, target); err != nil {
//	    log.Fatal(err)
//	}
package render
