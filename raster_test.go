package lilac

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/gogpu/lilac/internal/imageio"
)

func TestRasterImage(t *testing.T) {
	r := NewRaster(3, 2)
	r.Store(4, 0x80ff4020)

	if got := r.Bounds(); got != image.Rect(0, 0, 3, 2) {
		t.Errorf("Bounds = %v, want (0,0)-(3,2)", got)
	}
	if got := r.ColorAt(1, 1); got != 0x80ff4020 {
		t.Errorf("ColorAt(1,1) = %v, want {80ff4020}", got)
	}
	want := color.NRGBA{R: 0xff, G: 0x40, B: 0x20, A: 0x80}
	if got := r.At(1, 1); got != want {
		t.Errorf("At(1,1) = %v, want %v", got, want)
	}
	if got := r.ColorAt(3, 0); got != 0 {
		t.Errorf("ColorAt outside = %v, want 0", got)
	}
	if got := r.ToImage().NRGBAAt(1, 1); got != want {
		t.Errorf("ToImage().NRGBAAt(1,1) = %v, want %v", got, want)
	}
}

func TestRasterEncodePNG(t *testing.T) {
	r := NewRaster(2, 1)
	r.Store(0, 0xff0000ff)
	r.Store(1, 0xffffffff)

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if got := color.NRGBAModel.Convert(img.At(0, 0)); got != (color.NRGBA{B: 0xff, A: 0xff}) {
		t.Errorf("decoded pixel = %v, want opaque blue", got)
	}
}

func TestRasterSave(t *testing.T) {
	dir := t.TempDir()
	r := NewRaster(2, 2)
	for i := range r.Pix() {
		r.Store(i, 0xff336699)
	}
	for _, name := range []string{"out.png", "out.bmp", "out.tiff", "out.jpg"} {
		if err := r.Save(filepath.Join(dir, name)); err != nil {
			t.Errorf("Save(%s): %v", name, err)
		}
	}
	err := r.Save(filepath.Join(dir, "out.xyz"))
	if !errors.Is(err, imageio.ErrUnsupportedFormat) {
		t.Errorf("Save(out.xyz) = %v, want ErrUnsupportedFormat", err)
	}
	if got := Classify(err); got != CategoryIO {
		t.Errorf("Classify = %v, want io", got)
	}
}
