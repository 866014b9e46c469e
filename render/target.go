// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/lilac/graph"

// Target receives the pixels produced by a Loop.
//
// Width and Height fix the raster size. Store is called exactly once per
// pixel, in increasing offset order.
type Target interface {
	// Width returns the raster width in pixels.
	Width() int

	// Height returns the raster height in pixels.
	Height() int

	// Store records the color for the pixel at offset.
	Store(offset int, c graph.Color)
}
