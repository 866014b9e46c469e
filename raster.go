package lilac

import (
	"image"
	"image/color"
	"io"

	"github.com/gogpu/lilac/graph"
	"github.com/gogpu/lilac/internal/imageio"
	"github.com/gogpu/lilac/render"
)

var _ render.Target = (*Raster)(nil)

// Raster is the rendered output: packed ARGB colors in row-major order.
//
// Raster implements image.Image and render.Target.
type Raster struct {
	width  int
	height int
	pix    []graph.Color
}

// NewRaster creates a transparent black raster.
func NewRaster(width, height int) *Raster {
	return &Raster{
		width:  width,
		height: height,
		pix:    make([]graph.Color, width*height),
	}
}

// Width returns the width of the raster.
func (r *Raster) Width() int {
	return r.width
}

// Height returns the height of the raster.
func (r *Raster) Height() int {
	return r.height
}

// Pix returns the packed colors. Pixel (x, y) is at y*Width()+x.
func (r *Raster) Pix() []graph.Color {
	return r.pix
}

// Store sets the pixel at offset.
func (r *Raster) Store(offset int, c graph.Color) {
	r.pix[offset] = c
}

// ColorAt returns the packed color at (x, y), or 0 outside the raster.
func (r *Raster) ColorAt(x, y int) graph.Color {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return 0
	}
	return r.pix[y*r.width+x]
}

// At implements the image.Image interface.
func (r *Raster) At(x, y int) color.Color {
	return r.ColorAt(x, y).NRGBA()
}

// Bounds implements the image.Image interface.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// ColorModel implements the image.Image interface.
func (r *Raster) ColorModel() color.Model {
	return color.NRGBAModel
}

// ToImage converts the raster to an image.NRGBA.
func (r *Raster) ToImage() *image.NRGBA {
	img := image.NewNRGBA(r.Bounds())
	for i, c := range r.pix {
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		p[0], p[1], p[2], p[3] = c.R(), c.G(), c.B(), c.A()
	}
	return img
}

// Save writes the raster to path. The format follows the extension: .png,
// .jpg, .jpeg, .bmp, .tif or .tiff.
func (r *Raster) Save(path string) error {
	return imageio.Save(path, r.ToImage())
}

// EncodePNG writes the raster to w as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return imageio.Encode(w, r.ToImage(), imageio.PNG)
}
