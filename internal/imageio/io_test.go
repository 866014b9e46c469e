package imageio

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := range 2 {
		for x := range 3 {
			img.SetNRGBA(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(2, 1, color.NRGBA{G: 255, B: 128, A: 255})
	return img
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  error
	}{
		{"out.png", PNG, nil},
		{"OUT.PNG", PNG, nil},
		{"a/b.jpg", JPEG, nil},
		{"x.jpeg", JPEG, nil},
		{"x.bmp", BMP, nil},
		{"x.tif", TIFF, nil},
		{"x.tiff", TIFF, nil},
		{"x.gif", 0, ErrUnsupportedFormat},
		{"noext", 0, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		got, err := FormatFor(tt.path)
		if !errors.Is(err, tt.err) {
			t.Errorf("FormatFor(%q) error = %v, want %v", tt.path, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFor(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSaveLoadLossless(t *testing.T) {
	src := testImage()
	for _, name := range []string{"img.png", "img.bmp", "img.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Save(path, src); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			w, h, err := Size(path)
			if err != nil {
				t.Fatalf("Size() error = %v", err)
			}
			if w != 3 || h != 2 {
				t.Errorf("Size() = %dx%d, want 3x2", w, h)
			}
			img, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			for _, p := range []image.Point{{0, 0}, {2, 1}, {1, 1}} {
				want := color.NRGBAModel.Convert(src.At(p.X, p.Y))
				got := color.NRGBAModel.Convert(img.At(p.X, p.Y))
				if got != want {
					t.Errorf("pixel %v = %v, want %v", p, got, want)
				}
			}
		})
	}
}

func TestSaveJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.jpg")
	if err := Save(path, testImage()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if w, h, err := Size(path); err != nil || w != 3 || h != 2 {
		t.Errorf("Size() = %d, %d, %v, want 3, 2, nil", w, h, err)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("Load(\"\") error = %v, want ErrEmptyPath", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load(missing) succeeded")
	}
	if err := Save(filepath.Join(t.TempDir(), "x.gif"), testImage()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Save(.gif) error = %v, want ErrUnsupportedFormat", err)
	}
}
