// Package lilac compiles pixel-graph scripts and renders them to images.
//
// # Overview
//
// A Lilac script describes an image as a directed acyclic graph of nodes.
// Each node computes one ARGB color for the pixel being rendered, possibly
// by evaluating other nodes. The script is executed by a stack machine that
// builds the graph; the render loop then evaluates the root node exactly
// once per pixel in row-major order.
//
// # Quick Start
//
//	src := `%lilac 1.0;
//	%dim 64 64;
//	%body;
//	{ff0000ff} constant
//	|;`
//
//	raster, err := lilac.New().Render(strings.NewReader(src))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = raster.Save("blue.png")
//
// # Scripts
//
// A script starts with a header of metacommands and ends with |;:
//
//	%lilac 1.0;
//	%dim 640 480;         # or %frame "template.png";
//	%graph-depth 32;
//	%stack-height 64;
//	%name-limit 1024;
//	%body;
//	...
//	|;
//
// The body pushes literals ("text", {AARRGGBB} colors, numbers), declares
// and reads names (?var, @const, =assign, :get), groups with ( ) and [ ],
// and invokes operations by name. When the body ends exactly one node must
// remain on the stack; it becomes the root.
//
// # Architecture
//
// The module is organized into:
//   - graph: colors, the node arena and the Frame seen by evaluators
//   - vm: entities, variants, the namespace, operation registry and machine
//   - render: the render loop and output targets
//   - script: the entity reader and header metacommands
//   - plugin: the extension boundary for node types
//   - nodes: the built-in node types
//
// # Errors
//
// Every failure is fatal for the run. Use [Classify] to get the category of
// an error for diagnostics.
package lilac
