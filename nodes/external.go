package nodes

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/gogpu/lilac/graph"
	"github.com/gogpu/lilac/internal/imageio"
	"github.com/gogpu/lilac/plugin"
	"github.com/gogpu/lilac/vm"
)

// External errors.
var (
	// ErrExternalRAM is returned when one interleaved pixel no longer fits
	// the RAM window.
	ErrExternalRAM = errors.New("external: too many external images, increase external-ram-kib")

	// ErrExternalDisk is returned when the interleaved data would exceed the
	// disk budget.
	ErrExternalDisk = errors.New("external: too many external images, increase external-disk-mib")

	// ErrExternalSize is returned when an image does not match the output size.
	ErrExternalSize = errors.New("external: image dimensions do not match output")
)

// externalNode returns pixel i of the interleaved data at the current offset.
type externalNode struct {
	set *externalSet
	i   int
}

func (n externalNode) Evaluate(fr graph.Frame) (graph.Color, error) {
	return n.set.pixel(fr.Offset(), n.i)
}

// externalSet holds every image referenced by external nodes in one run.
//
// During preparation the images are decoded one at a time and interleaved
// into a temporary file, so that pixel p of image i lives at
// (p*count + i)*4. Rendering then reads the file forward through a window
// sized by external-ram-kib.
type externalSet struct {
	settings plugin.Settings
	paths    []string
	file     *os.File

	window []byte
	base   int
	n      int
}

// External registers the external operation.
func External(h *plugin.Host) error {
	s := &externalSet{settings: h.Settings(), base: -1}
	if err := h.Prepare(s.prepare); err != nil {
		return err
	}
	if err := h.Cleanup(s.close); err != nil {
		return err
	}
	return h.Register("external", s.opExternal)
}

func (s *externalSet) opExternal(m *vm.Machine) error {
	path, err := m.PopString()
	if err != nil {
		return err
	}
	count := int64(len(s.paths) + 1)
	if count*4 > int64(s.settings.ExternalRAMKiB)*1024 {
		return ErrExternalRAM
	}
	pixels := int64(s.settings.Width) * int64(s.settings.Height)
	if pixels*4*count > int64(s.settings.ExternalDiskMiB)<<20 {
		return ErrExternalDisk
	}
	n, err := m.Define(externalNode{set: s, i: len(s.paths)}, 1)
	if err != nil {
		return err
	}
	s.paths = append(s.paths, path)
	return m.PushNode(n)
}

func (s *externalSet) prepare() error {
	if len(s.paths) == 0 {
		return nil
	}
	f, err := os.CreateTemp("", "lilac-external-*")
	if err != nil {
		return fmt.Errorf("external: create temp file: %w", err)
	}
	s.file = f

	w, h := s.settings.Width, s.settings.Height
	stride := len(s.paths) * 4
	if err := f.Truncate(int64(w) * int64(h) * int64(stride)); err != nil {
		return fmt.Errorf("external: %w", err)
	}
	row := make([]byte, w*stride)
	for i, path := range s.paths {
		img, err := imageio.Load(path)
		if err != nil {
			return fmt.Errorf("external: %w", err)
		}
		b := img.Bounds()
		if b.Dx() != w || b.Dy() != h {
			return fmt.Errorf("%w: %s is %dx%d, output is %dx%d", ErrExternalSize, path, b.Dx(), b.Dy(), w, h)
		}
		for y := range h {
			off := int64(y) * int64(len(row))
			if _, err := f.ReadAt(row, off); err != nil {
				return fmt.Errorf("external: read: %w", err)
			}
			for x := range w {
				c := pixelAt(img, b.Min.X+x, b.Min.Y+y)
				binary.LittleEndian.PutUint32(row[x*stride+i*4:], uint32(c))
			}
			if _, err := f.WriteAt(row, off); err != nil {
				return fmt.Errorf("external: write: %w", err)
			}
		}
	}

	pixels := max(1, s.settings.ExternalRAMKiB*1024/stride)
	s.window = make([]byte, pixels*stride)
	return nil
}

// pixelAt reads one pixel, avoiding color.Model conversion for NRGBA.
func pixelAt(img image.Image, x, y int) graph.Color {
	if n, ok := img.(*image.NRGBA); ok {
		c := n.NRGBAAt(x, y)
		return graph.ARGB(c.A, c.R, c.G, c.B)
	}
	return graph.FromColor(img.At(x, y))
}

// pixel returns image i at offset, moving the window forward as needed.
func (s *externalSet) pixel(offset, i int) (graph.Color, error) {
	if s.file == nil {
		return 0, errors.New("external: data not prepared")
	}
	if s.base < 0 || offset < s.base || offset >= s.base+s.n {
		if err := s.load(offset); err != nil {
			return 0, err
		}
	}
	stride := len(s.paths) * 4
	idx := (offset-s.base)*stride + i*4
	return graph.Color(binary.LittleEndian.Uint32(s.window[idx:])), nil
}

func (s *externalSet) load(offset int) error {
	stride := len(s.paths) * 4
	total := s.settings.Width * s.settings.Height
	if offset < 0 || offset >= total {
		return fmt.Errorf("external: offset %d out of range", offset)
	}
	n := min(len(s.window)/stride, total-offset)
	if _, err := s.file.ReadAt(s.window[:n*stride], int64(offset)*int64(stride)); err != nil {
		return fmt.Errorf("external: read: %w", err)
	}
	s.base, s.n = offset, n
	return nil
}

func (s *externalSet) close() error {
	if s.file == nil {
		return nil
	}
	name := s.file.Name()
	err := s.file.Close()
	s.file = nil
	if rerr := os.Remove(name); rerr != nil && err == nil {
		err = rerr
	}
	return err
}
