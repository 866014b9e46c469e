package script

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/lilac/vm"
)

func readHeader(t *testing.T, src string) (Header, *Reader, error) {
	t.Helper()
	rd := NewReader(strings.NewReader(src))
	h, err := ReadHeader(rd, DefaultLimits())
	return h, rd, err
}

func TestReadHeaderDefaults(t *testing.T) {
	h, rd, err := readHeader(t, "%lilac 1.0;\n%dim 640 480;\n%body;\n{ff000000} constant |;")
	if err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	if h.Width != 640 || h.Height != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480", h.Width, h.Height)
	}
	if h.Limits != DefaultLimits() {
		t.Errorf("Limits = %+v, want defaults", h.Limits)
	}
	if h.Version != (Version{1, 0}) {
		t.Errorf("Version = %v, want 1.0", h.Version)
	}
	ent, err := rd.Next()
	if err != nil || ent.Kind != vm.EntityString || ent.Line != 4 {
		t.Errorf("first body entity = %+v, %v", ent, err)
	}
}

func TestReadHeaderLimits(t *testing.T) {
	src := `%lilac 1.2;
%dim 2 3;
%graph-depth 5;
%stack-height 10;
%name-limit 0;
%external-disk-mib 1;
%external-ram-kib 1048576;
%body;`
	h, _, err := readHeader(t, src)
	if err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	want := Limits{GraphDepth: 5, StackHeight: 10, NameLimit: 0, ExternalDiskMiB: 1, ExternalRAMKiB: 1048576}
	if h.Limits != want {
		t.Errorf("Limits = %+v, want %+v", h.Limits, want)
	}
	if h.Version.Minor != 2 {
		t.Errorf("Version = %v, want 1.2", h.Version)
	}
}

func TestReadHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no signature", "%dim 1 1; %body;", ErrSignature},
		{"body first", "{ff000000} |;", ErrSignature},
		{"major 2", "%lilac 2.0; %dim 1 1; %body;", ErrVersion},
		{"leading zero", "%lilac 01.0; %dim 1 1; %body;", ErrVersion},
		{"no minor", "%lilac 1; %dim 1 1; %body;", ErrVersion},
		{"no dim", "%lilac 1.0; %body;", ErrDimensions},
		{"zero width", "%lilac 1.0; %dim 0 1; %body;", ErrDimensions},
		{"too wide", "%lilac 1.0; %dim 16385 1; %body;", ErrDimensions},
		{"too many pixels", "%lilac 1.0; %dim 16384 1025; %body;", ErrDimensions},
		{"dim twice", "%lilac 1.0; %dim 1 1; %dim 2 2; %body;", ErrDuplicateMeta},
		{"dim and frame", `%lilac 1.0; %dim 1 1; %frame "x.png"; %body;`, ErrMetacommand},
		{"unknown", "%lilac 1.0; %dim 1 1; %colour red; %body;", ErrMetacommand},
		{"signed int", "%lilac 1.0; %dim +1 1; %body;", ErrMetacommand},
		{"depth zero", "%lilac 1.0; %dim 1 1; %graph-depth 0; %body;", ErrLimit},
		{"disk too big", "%lilac 1.0; %dim 1 1; %external-disk-mib 1025; %body;", ErrLimit},
		{"body args", "%lilac 1.0; %dim 1 1; %body now;", ErrMetacommand},
		{"entity in header", "%lilac 1.0; %dim 1 1; 5 %body;", ErrMetacommand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := readHeader(t, tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadHeader() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadHeaderFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 5, 7))); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	src := "%lilac 1.0;\n%frame \"" + filepath.ToSlash(path) + "\";\n%body;"
	h, _, err := readHeader(t, src)
	if err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	if h.Width != 5 || h.Height != 7 {
		t.Errorf("dimensions = %dx%d, want 5x7", h.Width, h.Height)
	}
	if h.Frame == "" {
		t.Error("Frame not recorded")
	}
}

func TestLimitsValidate(t *testing.T) {
	if err := DefaultLimits().Validate(); err != nil {
		t.Errorf("DefaultLimits().Validate() = %v", err)
	}
	l := DefaultLimits()
	l.StackHeight = 0
	if err := l.Validate(); !errors.Is(err, ErrLimit) {
		t.Errorf("Validate() = %v, want ErrLimit", err)
	}
}
