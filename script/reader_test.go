package script

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gogpu/lilac/vm"
)

// readAll returns every entity up to and including EntityEOF.
func readAll(t *testing.T, src string) ([]vm.Entity, error) {
	t.Helper()
	rd := NewReader(strings.NewReader(src))
	var out []vm.Entity
	for range 10000 {
		ent, err := rd.Next()
		if err != nil {
			return out, err
		}
		out = append(out, ent)
		if ent.Kind == vm.EntityEOF {
			return out, nil
		}
	}
	t.Fatal("reader did not terminate")
	return nil, nil
}

// describe renders entities compactly for comparison.
func describe(ents []vm.Entity) string {
	parts := make([]string, 0, len(ents))
	for _, e := range ents {
		switch e.Kind {
		case vm.EntityString:
			form := "q"
			if e.Form == vm.Curly {
				form = "c"
			}
			parts = append(parts, fmt.Sprintf("str:%s:%s%q", form, e.Key, e.Value))
		case vm.EntityMetaString:
			parts = append(parts, fmt.Sprintf("mstr:%q", e.Value))
		case vm.EntityArray:
			parts = append(parts, fmt.Sprintf("array:%d", e.Count))
		case vm.EntityBeginGroup:
			parts = append(parts, "(")
		case vm.EntityEndGroup:
			parts = append(parts, ")")
		case vm.EntityBeginMeta:
			parts = append(parts, "%")
		case vm.EntityEndMeta:
			parts = append(parts, ";")
		case vm.EntityEOF:
			parts = append(parts, "EOF")
		default:
			parts = append(parts, e.Kind.String()+":"+e.Key)
		}
	}
	return strings.Join(parts, " ")
}

func TestReaderEntities(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"literals", `"hi" {ff00ff00} 1.5 -2 +3 |;`,
			`str:q:"hi" str:c:"ff00ff00" numeric:1.5 numeric:-2 numeric:+3 EOF`},
		{"names", `?v @c =v :c op_1 |;`,
			`variable:v constant:c assign:v get:c operation:op_1 EOF`},
		{"groups", `( 1 ) |;`, `( numeric:1 ) EOF`},
		{"escapes", `"a\"b\\c" |;`, `str:q:"a\"b\\c" EOF`},
		{"nested curly", `{a{b}c} |;`, `str:c:"a{b}c" EOF`},
		{"prefix", `p"x" q{y} |;`, `str:q:p"x" str:c:q"y" EOF`},
		{"comments", "# hello\n1 # trailing\n|;", `numeric:1 EOF`},
		{"meta", `%dim 3 4; %frame "a b.png"; |;`,
			`% meta-token:dim meta-token:3 meta-token:4 ; % meta-token:frame mstr:"a b.png" ; EOF`},
		{"array", `[1, 2, 3] |;`,
			`( numeric:1 ) ( numeric:2 ) ( numeric:3 ) array:3 EOF`},
		{"empty array", `[ ] |;`, `array:0 EOF`},
		{"nested array", `[[1], 2] |;`,
			`( ( numeric:1 ) array:1 ) ( numeric:2 ) array:2 EOF`},
		{"no spaces", `1(2)op|;`, `numeric:1 ( numeric:2 ) operation:op EOF`},
		{"trailing input ignored", "{ff000000} constant |; anything @ goes", `str:c:"ff000000" operation:constant EOF`},
		{"malformed numeric is still numeric", `12.3.4 |;`, `numeric:12.3.4 EOF`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ents, err := readAll(t, tt.src)
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			if got := describe(ents); got != tt.want {
				t.Errorf("entities =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}

func TestReaderLineNumbers(t *testing.T) {
	ents, err := readAll(t, "1\n\n\"two\"\n{00000000} 3\n# c\n|;")
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 3, 4, 4, 6}
	for i, w := range want {
		if ents[i].Line != w {
			t.Errorf("entity %d line = %d, want %d", i, ents[i].Line, w)
		}
	}
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
	}{
		{"missing terminator", "1 2", 1},
		{"unterminated string", "\n\"abc", 2},
		{"unterminated curly", "{abc", 1},
		{"bad escape", `"\n" |;`, 1},
		{"line break in string", "1\n\"a\nb\" |;", 2},
		{"line break in meta string", "%frame \"a\r\nb\";", 1},
		{"stray semicolon", "1 ; |;", 1},
		{"comma outside array", "1 , 2 |;", 1},
		{"unmatched bracket", "]", 1},
		{"unclosed array", "[1 |;", 1},
		{"missing name", "? x |;", 1},
		{"bar without semicolon", "| 1", 1},
		{"illegal byte", "\x01 |;", 1},
		{"long token", strings.Repeat("a", MaxTokenLen+1) + " |;", 1},
		{"brace in meta", "%dim {1};", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAll(t, tt.src)
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("error = %v, want ErrSyntax", err)
			}
			var le *vm.LineError
			if !errors.As(err, &le) || le.Line != tt.wantLine {
				t.Errorf("error = %v, want line %d", err, tt.wantLine)
			}
		})
	}
}

func TestReaderEOFRepeats(t *testing.T) {
	rd := NewReader(strings.NewReader("|;"))
	for i := range 3 {
		ent, err := rd.Next()
		if err != nil || ent.Kind != vm.EntityEOF {
			t.Errorf("Next() #%d = %v, %v, want EOF", i, ent.Kind, err)
		}
	}
}
