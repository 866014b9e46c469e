package script

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/lilac/internal/imageio"
	"github.com/gogpu/lilac/vm"
)

// Dimension limits.
const (
	MaxDimension  = 16384
	MaxPixelCount = 16777216
)

// Header errors.
var (
	// ErrSignature is returned when the script does not start with %lilac.
	ErrSignature = errors.New("script: missing %lilac signature")

	// ErrVersion is returned for a malformed or unsupported version.
	ErrVersion = errors.New("script: unsupported version")

	// ErrMetacommand is returned for an unknown or malformed metacommand.
	ErrMetacommand = errors.New("script: invalid metacommand")

	// ErrDuplicateMeta is returned when a metacommand appears twice.
	ErrDuplicateMeta = errors.New("script: metacommand specified more than once")

	// ErrDimensions is returned for missing or out-of-range dimensions.
	ErrDimensions = errors.New("script: invalid image dimensions")

	// ErrLimit is returned for a limit outside its range.
	ErrLimit = errors.New("script: limit out of range")
)

// Limits holds the tunable capacities of a run.
type Limits struct {
	GraphDepth      int `toml:"graph-depth"`
	StackHeight     int `toml:"stack-height"`
	NameLimit       int `toml:"name-limit"`
	ExternalDiskMiB int `toml:"external-disk-mib"`
	ExternalRAMKiB  int `toml:"external-ram-kib"`
}

// limitSpec describes one numeric metacommand.
type limitSpec struct {
	name     string
	min, max int
	field    func(*Limits) *int
}

var limitSpecs = []limitSpec{
	{"graph-depth", 1, 16384, func(l *Limits) *int { return &l.GraphDepth }},
	{"stack-height", 1, 16384, func(l *Limits) *int { return &l.StackHeight }},
	{"name-limit", 0, 16384, func(l *Limits) *int { return &l.NameLimit }},
	{"external-disk-mib", 1, 1024, func(l *Limits) *int { return &l.ExternalDiskMiB }},
	{"external-ram-kib", 1, 1048576, func(l *Limits) *int { return &l.ExternalRAMKiB }},
}

// DefaultLimits returns the built-in limits.
func DefaultLimits() Limits {
	return Limits{
		GraphDepth:      32,
		StackHeight:     64,
		NameLimit:       1024,
		ExternalDiskMiB: 256,
		ExternalRAMKiB:  64,
	}
}

// Validate checks every limit against its range.
func (l Limits) Validate() error {
	for _, s := range limitSpecs {
		if v := *s.field(&l); v < s.min || v > s.max {
			return fmt.Errorf("%w: %s %d not in %d..%d", ErrLimit, s.name, v, s.min, s.max)
		}
	}
	return nil
}

// Version is the script format version from the signature.
type Version struct {
	Major, Minor int
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// Header is the result of reading the metacommands before %body.
type Header struct {
	Version Version
	Width   int
	Height  int

	// Frame is the template image path when dimensions came from %frame.
	Frame string

	Limits
}

// ReadHeader reads the signature and metacommands up to and including
// %body. Limits not set by the script keep the values from defaults.
func ReadHeader(rd *Reader, defaults Limits) (Header, error) {
	h := Header{Limits: defaults}
	if err := readSignature(rd, &h); err != nil {
		return Header{}, err
	}

	seen := make(map[string]bool)
	for {
		name, args, line, err := readMeta(rd)
		if err != nil {
			return Header{}, err
		}
		if seen[name] {
			return Header{}, &vm.LineError{Line: line, Err: fmt.Errorf("%w: %%%s", ErrDuplicateMeta, name)}
		}
		seen[name] = true
		if name == "body" {
			if len(args) != 0 {
				return Header{}, metaErr(line, "%body takes no arguments")
			}
			break
		}
		if err := h.apply(name, args, seen); err != nil {
			return Header{}, &vm.LineError{Line: line, Err: err}
		}
	}
	if h.Width == 0 {
		return Header{}, &vm.LineError{Line: rd.Line(), Err: fmt.Errorf("%w: %%dim or %%frame is required", ErrDimensions)}
	}
	return h, nil
}

func readSignature(rd *Reader, h *Header) error {
	name, args, line, err := readMeta(rd)
	if err != nil {
		if errors.Is(err, ErrMetacommand) {
			return &vm.LineError{Line: line, Err: ErrSignature}
		}
		return err
	}
	if name != "lilac" || len(args) != 1 || args[0].Kind != vm.EntityMetaToken {
		return &vm.LineError{Line: line, Err: ErrSignature}
	}
	v, err := parseVersion(args[0].Key)
	if err != nil {
		return &vm.LineError{Line: line, Err: err}
	}
	h.Version = v
	return nil
}

// parseVersion accepts "major.minor" with no leading zeros and major 1.
func parseVersion(s string) (Version, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return Version{}, fmt.Errorf("%w: %q", ErrVersion, s)
	}
	var v Version
	var err1, err2 error
	v.Major, err1 = parseCount(major)
	v.Minor, err2 = parseCount(minor)
	if err1 != nil || err2 != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrVersion, s)
	}
	if v.Major != 1 {
		return Version{}, fmt.Errorf("%w: %s, only major version 1 is supported", ErrVersion, v)
	}
	return v, nil
}

// readMeta reads one complete metacommand.
func readMeta(rd *Reader) (name string, args []vm.Entity, line int, err error) {
	ent, err := rd.Next()
	if err != nil {
		return "", nil, rd.Line(), err
	}
	line = ent.Line
	if ent.Kind != vm.EntityBeginMeta {
		return "", nil, line, metaErr(line, "expected metacommand, found "+ent.Kind.String())
	}
	ent, err = rd.Next()
	if err != nil {
		return "", nil, line, err
	}
	if ent.Kind != vm.EntityMetaToken {
		return "", nil, line, metaErr(line, "metacommand has no name")
	}
	name = ent.Key
	for {
		ent, err = rd.Next()
		if err != nil {
			return "", nil, line, err
		}
		if ent.Kind == vm.EntityEndMeta {
			return name, args, line, nil
		}
		args = append(args, ent)
	}
}

func (h *Header) apply(name string, args []vm.Entity, seen map[string]bool) error {
	switch name {
	case "dim":
		if seen["frame"] {
			return fmt.Errorf("%w: %%dim and %%frame are mutually exclusive", ErrMetacommand)
		}
		if len(args) != 2 {
			return fmt.Errorf("%w: %%dim takes width and height", ErrMetacommand)
		}
		w, err1 := tokenInt(args[0])
		ht, err2 := tokenInt(args[1])
		if err1 != nil || err2 != nil {
			return fmt.Errorf("%w: %%dim takes two integers", ErrMetacommand)
		}
		return h.setDim(w, ht)
	case "frame":
		if seen["dim"] {
			return fmt.Errorf("%w: %%dim and %%frame are mutually exclusive", ErrMetacommand)
		}
		if len(args) != 1 || args[0].Kind != vm.EntityMetaString {
			return fmt.Errorf("%w: %%frame takes a quoted path", ErrMetacommand)
		}
		w, ht, err := imageio.Size(args[0].Value)
		if err != nil {
			return fmt.Errorf("%%frame: %w", err)
		}
		h.Frame = args[0].Value
		return h.setDim(w, ht)
	}
	for _, s := range limitSpecs {
		if s.name != name {
			continue
		}
		if len(args) != 1 {
			return fmt.Errorf("%w: %%%s takes one integer", ErrMetacommand, name)
		}
		v, err := tokenInt(args[0])
		if err != nil {
			return fmt.Errorf("%w: %%%s takes one integer", ErrMetacommand, name)
		}
		if v < s.min || v > s.max {
			return fmt.Errorf("%w: %s %d not in %d..%d", ErrLimit, name, v, s.min, s.max)
		}
		*s.field(&h.Limits) = v
		return nil
	}
	return fmt.Errorf("%w: unknown %%%s", ErrMetacommand, name)
}

func (h *Header) setDim(w, ht int) error {
	if w < 1 || w > MaxDimension || ht < 1 || ht > MaxDimension {
		return fmt.Errorf("%w: %dx%d, each side must be 1..%d", ErrDimensions, w, ht, MaxDimension)
	}
	if w*ht > MaxPixelCount {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrDimensions, w, ht, MaxPixelCount)
	}
	h.Width, h.Height = w, ht
	return nil
}

func tokenInt(ent vm.Entity) (int, error) {
	if ent.Kind != vm.EntityMetaToken {
		return 0, ErrMetacommand
	}
	return parseCount(ent.Key)
}

// parseCount parses an unsigned decimal with no leading zeros.
func parseCount(s string) (int, error) {
	if s == "" || len(s) > 9 || (len(s) > 1 && s[0] == '0') {
		return 0, strconv.ErrSyntax
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

func metaErr(line int, msg string) error {
	return &vm.LineError{Line: line, Err: fmt.Errorf("%w: %s", ErrMetacommand, msg)}
}
