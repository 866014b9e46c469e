// Package nodes provides the built-in node types.
//
// Importing the package registers each type with the plugin registry:
//
//	constant       color → node
//	select_new     index default →
//	select_map     key node →
//	select_finish  → node
//	external       path → node
//	text_font      path →
//	text           fg bg string size x y → node
//
// constant yields one color everywhere. The select family builds a palette
// lookup: the index node is evaluated, its color is looked up among the
// mapped keys and the matching node, or the default, supplies the pixel.
// external reads pixels from an image file that matches the output size.
// text draws a shaped string over a background node.
package nodes

import "github.com/gogpu/lilac/plugin"

func init() {
	plugin.Register("constant", Constant)
	plugin.Register("external", External)
	plugin.Register("select", Select)
	plugin.Register("text", Text)
}
