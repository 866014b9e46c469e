package nodes

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/lilac/graph"
	"github.com/gogpu/lilac/internal/cache"
	"github.com/gogpu/lilac/plugin"
	"github.com/gogpu/lilac/vm"
)

// MaxTextSize is the largest text size in pixels per em.
const MaxTextSize = 4096

// glyphCacheSize bounds the outlines kept across text runs.
const glyphCacheSize = 1024

// Text errors.
var (
	// ErrTextSize is returned for a size outside (0, MaxTextSize].
	ErrTextSize = errors.New("text: size out of range")

	// ErrFont is returned when a font file cannot be used.
	ErrFont = errors.New("text: unusable font")
)

// textNode blends fg over bg by the coverage of a pre-rendered string.
type textNode struct {
	fg, bg graph.Node
	run    *textRun
}

func (n textNode) Evaluate(fr graph.Frame) (graph.Color, error) {
	a := n.run.mask.Pix[fr.Offset()]
	switch a {
	case 0:
		return fr.Invoke(n.bg)
	case 0xff:
		return fr.Invoke(n.fg)
	}
	fg, err := fr.Invoke(n.fg)
	if err != nil {
		return 0, err
	}
	bg, err := fr.Invoke(n.bg)
	if err != nil {
		return 0, err
	}
	return bg.Lerp(fg, a), nil
}

// textRun is one string to draw, rendered to mask during preparation.
type textRun struct {
	text string
	font string
	size float64
	x, y float64
	mask *image.Alpha
}

// fontData is a font parsed for both shaping and outline extraction.
type fontData struct {
	path string
	face *font.Face
	sfnt *sfnt.Font
}

// glyphKey identifies one scaled outline.
type glyphKey struct {
	font string
	id   sfnt.GlyphIndex
	ppem fixed.Int26_6
}

// textSet collects text runs and the fonts they use.
type textSet struct {
	settings plugin.Settings
	font     string
	runs     []*textRun
	fonts    map[string]*fontData
	glyphs   *cache.Cache[glyphKey, sfnt.Segments]
	buf      sfnt.Buffer
}

// Text registers the text and text_font operations.
func Text(h *plugin.Host) error {
	s := &textSet{
		settings: h.Settings(),
		font:     h.Settings().FontPath,
		fonts:    make(map[string]*fontData),
		glyphs:   cache.New[glyphKey, sfnt.Segments](glyphCacheSize),
	}
	if err := h.Prepare(s.prepare); err != nil {
		return err
	}
	if err := h.Register("text_font", s.opFont); err != nil {
		return err
	}
	return h.Register("text", s.opText)
}

// opFont selects the font file for later text operations. An empty path
// restores the default.
func (s *textSet) opFont(m *vm.Machine) error {
	path, err := m.PopString()
	if err != nil {
		return err
	}
	if path == "" {
		path = s.settings.FontPath
	}
	s.font = path
	return nil
}

func (s *textSet) opText(m *vm.Machine) error {
	y, err := m.PopFloat()
	if err != nil {
		return err
	}
	x, err := m.PopFloat()
	if err != nil {
		return err
	}
	size, err := m.PopFloat()
	if err != nil {
		return err
	}
	if size <= 0 || size > MaxTextSize {
		return fmt.Errorf("%w: %g", ErrTextSize, size)
	}
	str, err := m.PopString()
	if err != nil {
		return err
	}
	bg, err := m.PopNode()
	if err != nil {
		return err
	}
	fg, err := m.PopNode()
	if err != nil {
		return err
	}
	depth, err := m.DepthAbove(fg, bg)
	if err != nil {
		return err
	}
	run := &textRun{text: str, font: s.font, size: size, x: x, y: y}
	n, err := m.Define(textNode{fg: fg, bg: bg, run: run}, depth)
	if err != nil {
		return err
	}
	s.runs = append(s.runs, run)
	return m.PushNode(n)
}

func (s *textSet) prepare() error {
	for _, run := range s.runs {
		fd, err := s.load(run.font)
		if err != nil {
			return err
		}
		run.mask, err = s.rasterize(fd, run)
		if err != nil {
			return err
		}
	}
	return nil
}

// load parses the font at path, or the built-in Go Regular for "".
func (s *textSet) load(path string) (*fontData, error) {
	if fd, ok := s.fonts[path]; ok {
		return fd, nil
	}
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("text: %w", err)
		}
		data = b
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFont, path, err)
	}
	outlines, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFont, path, err)
	}
	fd := &fontData{path: path, face: face, sfnt: outlines}
	s.fonts[path] = fd
	return fd, nil
}

// rasterize shapes run and fills its glyph outlines into a coverage mask
// the size of the output.
func (s *textSet) rasterize(fd *fontData, run *textRun) (*image.Alpha, error) {
	w, h := s.settings.Width, s.settings.Height
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	runes := []rune(norm.NFC.String(run.text))
	if len(runes) == 0 {
		return mask, nil
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: direction(string(runes)),
		Face:      fd.face,
		Size:      fixed.Int26_6(math.Round(run.size * 64)),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}
	out := (&shaping.HarfbuzzShaper{}).Shape(input)

	r := vector.NewRasterizer(w, h)
	ppem := fixed.Int26_6(math.Round(run.size * 64))
	pen := run.x
	drawn := false
	for _, g := range out.Glyphs {
		ox := float32(pen + float64(g.XOffset)/64)
		oy := float32(run.y - float64(g.YOffset)/64)
		segs, err := s.outline(fd, sfnt.GlyphIndex(g.GlyphID), ppem)
		if err != nil {
			return nil, err
		}
		for _, seg := range segs {
			p := func(i int) (float32, float32) {
				return ox + float32(seg.Args[i].X)/64, oy + float32(seg.Args[i].Y)/64
			}
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				if drawn {
					r.ClosePath()
				}
				r.MoveTo(p(0))
				drawn = true
			case sfnt.SegmentOpLineTo:
				r.LineTo(p(0))
			case sfnt.SegmentOpQuadTo:
				bx, by := p(0)
				cx, cy := p(1)
				r.QuadTo(bx, by, cx, cy)
			case sfnt.SegmentOpCubeTo:
				bx, by := p(0)
				cx, cy := p(1)
				dx, dy := p(2)
				r.CubeTo(bx, by, cx, cy, dx, dy)
			}
		}
		pen += float64(g.Advance) / 64
	}
	if drawn {
		r.ClosePath()
		r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	}
	return mask, nil
}

// outline returns the scaled outline of glyph id, loading it on a miss.
// Glyphs the font does not have yield no segments.
func (s *textSet) outline(fd *fontData, id sfnt.GlyphIndex, ppem fixed.Int26_6) (sfnt.Segments, error) {
	return s.glyphs.GetOrCreate(glyphKey{font: fd.path, id: id, ppem: ppem}, func() (sfnt.Segments, error) {
		segs, err := fd.sfnt.LoadGlyph(&s.buf, id, ppem, nil)
		if err != nil {
			if errors.Is(err, sfnt.ErrNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("text: glyph %d: %w", id, err)
		}
		return slices.Clone(segs), nil
	})
}

// direction returns the paragraph direction set by the first strong
// character of text. Text with no strong character is left-to-right.
func direction(text string) di.Direction {
	for _, r := range text {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.L:
			return di.DirectionLTR
		case bidi.R, bidi.AL:
			return di.DirectionRTL
		}
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
