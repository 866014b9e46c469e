package graph

// Frame is the render-phase context given to evaluators.
//
// Position queries are meaningful only while Mode reports true; outside of
// rendering they return -1 and Invoke fails with ErrNotRendering. Offsets
// advance strictly in row-major order across one render, so evaluators may
// stream data sequentially.
type Frame interface {
	// Mode reports whether the render loop is producing pixels.
	Mode() bool

	// Offset returns Y*Width + X for the current pixel.
	Offset() int

	// X returns the current column.
	X() int

	// Y returns the current row.
	Y() int

	// Width returns the output width in pixels.
	Width() int

	// Height returns the output height in pixels.
	Height() int

	// Invoke evaluates node n for the current pixel.
	Invoke(n Node) (Color, error)
}
