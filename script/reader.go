// Package script reads Lilac script text.
//
// A script is a header of metacommands followed by a body of entities:
//
//	%lilac 1.0;
//	%dim 640 480;
//	%body;
//
//	# a solid green image
//	{ff00ff00} constant
//	|;
//
// Reader tokenizes the text into vm.Entity values; ReadHeader consumes the
// header entities and leaves the Reader positioned at the first body entity.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/lilac/vm"
)

// MaxTokenLen is the longest name, numeric or operation token, in bytes.
const MaxTokenLen = 1023

// ErrSyntax is wrapped by every tokenizer error.
var ErrSyntax = errors.New("script: syntax error")

// Reader produces entities from script text.
//
// Array brackets are expanded while reading: each element is wrapped in a
// group and the closing bracket yields an EntityArray carrying the element
// count.
type Reader struct {
	r       *bufio.Reader
	line    int
	pending []vm.Entity
	arrays  []int
	meta    bool
	done    bool
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r), line: 1}
}

// Line returns the current line number, starting at 1.
func (rd *Reader) Line() int { return rd.line }

// Next returns the next entity. After "|;" it returns EntityEOF forever.
func (rd *Reader) Next() (vm.Entity, error) {
	if len(rd.pending) > 0 {
		ent := rd.pending[0]
		rd.pending = rd.pending[1:]
		return ent, nil
	}
	if rd.done {
		return vm.Entity{Kind: vm.EntityEOF, Line: rd.line}, nil
	}
	if err := rd.skipSpace(); err != nil {
		return vm.Entity{}, err
	}
	line := rd.line
	c, err := rd.read()
	if err != nil {
		return vm.Entity{}, err
	}
	if rd.meta {
		return rd.nextMeta(c, line)
	}

	ent := vm.Entity{Line: line}
	switch c {
	case '%':
		rd.meta = true
		ent.Kind = vm.EntityBeginMeta
	case '"':
		ent.Kind, ent.Form = vm.EntityString, vm.Quoted
		ent.Value, err = rd.readQuoted(line)
	case '{':
		ent.Kind, ent.Form = vm.EntityString, vm.Curly
		ent.Value, err = rd.readCurly(line)
	case '(':
		ent.Kind = vm.EntityBeginGroup
	case ')':
		ent.Kind = vm.EntityEndGroup
	case '[':
		return rd.openArray(line)
	case ',':
		if len(rd.arrays) == 0 {
			return vm.Entity{}, syntaxErr(line, "comma outside of array")
		}
		rd.arrays[len(rd.arrays)-1]++
		rd.pending = append(rd.pending, vm.Entity{Kind: vm.EntityBeginGroup, Line: line})
		ent.Kind = vm.EntityEndGroup
	case ']':
		n := len(rd.arrays)
		if n == 0 {
			return vm.Entity{}, syntaxErr(line, "unmatched ]")
		}
		count := rd.arrays[n-1]
		rd.arrays = rd.arrays[:n-1]
		rd.pending = append(rd.pending, vm.Entity{Kind: vm.EntityArray, Count: count, Line: line})
		ent.Kind = vm.EntityEndGroup
	case '|':
		return rd.finish(line)
	case ';':
		return vm.Entity{}, syntaxErr(line, "unexpected ;")
	case '?', '@', '=', ':':
		name, err := rd.readToken(0)
		if err != nil {
			return vm.Entity{}, err
		}
		if name == "" {
			return vm.Entity{}, syntaxErr(line, fmt.Sprintf("missing name after %c", c))
		}
		ent.Key, ent.Kind = name, nameKinds[c]
	default:
		return rd.readAtom(c, line)
	}
	if err != nil {
		return vm.Entity{}, err
	}
	return ent, nil
}

func (rd *Reader) nextMeta(c byte, line int) (vm.Entity, error) {
	switch c {
	case ';':
		rd.meta = false
		return vm.Entity{Kind: vm.EntityEndMeta, Line: line}, nil
	case '"':
		s, err := rd.readQuoted(line)
		if err != nil {
			return vm.Entity{}, err
		}
		return vm.Entity{Kind: vm.EntityMetaString, Value: s, Line: line}, nil
	case '{', '}', '(', ')', '[', ']', ',', '%', '|':
		return vm.Entity{}, syntaxErr(line, fmt.Sprintf("unexpected %q in metacommand", c))
	default:
		tok, err := rd.readToken(c)
		if err != nil {
			return vm.Entity{}, err
		}
		return vm.Entity{Kind: vm.EntityMetaToken, Key: tok, Line: line}, nil
	}
}

func (rd *Reader) openArray(line int) (vm.Entity, error) {
	if err := rd.skipSpace(); err != nil {
		return vm.Entity{}, err
	}
	if next, err := rd.r.Peek(1); err == nil && next[0] == ']' {
		_, _ = rd.read()
		return vm.Entity{Kind: vm.EntityArray, Count: 0, Line: line}, nil
	}
	rd.arrays = append(rd.arrays, 1)
	return vm.Entity{Kind: vm.EntityBeginGroup, Line: line}, nil
}

func (rd *Reader) finish(line int) (vm.Entity, error) {
	c, err := rd.read()
	if err != nil || c != ';' {
		return vm.Entity{}, syntaxErr(line, "expected |;")
	}
	if len(rd.arrays) > 0 {
		return vm.Entity{}, syntaxErr(line, "unclosed array")
	}
	rd.done = true
	if _, err := io.Copy(io.Discard, rd.r); err != nil {
		return vm.Entity{}, &vm.LineError{Line: line, Err: fmt.Errorf("script: read: %w", err)}
	}
	return vm.Entity{Kind: vm.EntityEOF, Line: line}, nil
}

// readAtom reads a numeric, operation or prefixed string starting with c.
func (rd *Reader) readAtom(c byte, line int) (vm.Entity, error) {
	tok, err := rd.readToken(c)
	if err != nil {
		return vm.Entity{}, err
	}
	if next, err := rd.r.Peek(1); err == nil && (next[0] == '"' || next[0] == '{') {
		_, _ = rd.read()
		ent := vm.Entity{Kind: vm.EntityString, Key: tok, Line: line}
		if next[0] == '"' {
			ent.Form = vm.Quoted
			ent.Value, err = rd.readQuoted(line)
		} else {
			ent.Form = vm.Curly
			ent.Value, err = rd.readCurly(line)
		}
		return ent, err
	}
	if c >= '0' && c <= '9' || c == '+' || c == '-' {
		return vm.Entity{Kind: vm.EntityNumeric, Key: tok, Line: line}, nil
	}
	return vm.Entity{Kind: vm.EntityOperation, Key: tok, Line: line}, nil
}

// readToken reads an atomic token. A non-zero first is the byte already
// consumed.
func (rd *Reader) readToken(first byte) (string, error) {
	line := rd.line
	buf := make([]byte, 0, 32)
	if first != 0 {
		if !tokenByte(first) {
			return "", syntaxErr(line, fmt.Sprintf("illegal character %q", first))
		}
		buf = append(buf, first)
	}
	for {
		next, err := rd.r.Peek(1)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &vm.LineError{Line: line, Err: fmt.Errorf("script: read: %w", err)}
		}
		if delimiter(next[0]) {
			break
		}
		if !tokenByte(next[0]) {
			return "", syntaxErr(line, fmt.Sprintf("illegal character %q", next[0]))
		}
		_, _ = rd.read()
		buf = append(buf, next[0])
		if len(buf) > MaxTokenLen {
			return "", syntaxErr(line, "token too long")
		}
	}
	return string(buf), nil
}

func (rd *Reader) readQuoted(line int) (string, error) {
	buf := make([]byte, 0, 32)
	for {
		c, err := rd.readIn(line, "string")
		if err != nil {
			return "", err
		}
		switch c {
		case '"':
			return string(buf), nil
		case '\n', '\r':
			return "", syntaxErr(line, "line break in string")
		case '\\':
			e, err := rd.readIn(line, "string")
			if err != nil {
				return "", err
			}
			if e != '"' && e != '\\' {
				return "", syntaxErr(rd.line, fmt.Sprintf("invalid escape \\%c", e))
			}
			c = e
		}
		buf = append(buf, c)
		if len(buf) > vm.MaxStringLen {
			return "", syntaxErr(line, "string too long")
		}
	}
}

func (rd *Reader) readCurly(line int) (string, error) {
	buf := make([]byte, 0, 8)
	depth := 1
	for {
		c, err := rd.readIn(line, "curly string")
		if err != nil {
			return "", err
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return string(buf), nil
			}
		}
		buf = append(buf, c)
		if len(buf) > vm.MaxStringLen {
			return "", syntaxErr(line, "string too long")
		}
	}
}

// readIn reads a byte inside a construct, turning end of input into a
// syntax error.
func (rd *Reader) readIn(line int, what string) (byte, error) {
	c, err := rd.r.ReadByte()
	if err == io.EOF {
		return 0, syntaxErr(line, "unterminated "+what)
	}
	if err != nil {
		return 0, &vm.LineError{Line: line, Err: fmt.Errorf("script: read: %w", err)}
	}
	if c == '\n' {
		rd.line++
	}
	return c, nil
}

func (rd *Reader) read() (byte, error) {
	c, err := rd.r.ReadByte()
	if err == io.EOF {
		return 0, syntaxErr(rd.line, "unexpected end of input, missing |;")
	}
	if err != nil {
		return 0, &vm.LineError{Line: rd.line, Err: fmt.Errorf("script: read: %w", err)}
	}
	if c == '\n' {
		rd.line++
	}
	return c, nil
}

// skipSpace consumes whitespace and comments.
func (rd *Reader) skipSpace() error {
	for {
		next, err := rd.r.Peek(1)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &vm.LineError{Line: rd.line, Err: fmt.Errorf("script: read: %w", err)}
		}
		switch c := next[0]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			_, _ = rd.read()
		case c == '#':
			for {
				c, err := rd.r.ReadByte()
				if err != nil {
					return nil
				}
				if c == '\n' {
					rd.line++
					break
				}
			}
		default:
			return nil
		}
	}
}

var nameKinds = map[byte]vm.EntityKind{
	'?': vm.EntityVariable,
	'@': vm.EntityConstant,
	'=': vm.EntityAssign,
	':': vm.EntityGet,
}

func delimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', '[', ']', ',', ';', '%', '"', '{', '}', '#', '|':
		return true
	}
	return false
}

func tokenByte(c byte) bool { return c > 0x20 && c < 0x7f }

func syntaxErr(line int, msg string) error {
	return &vm.LineError{Line: line, Err: fmt.Errorf("%w: %s", ErrSyntax, msg)}
}
