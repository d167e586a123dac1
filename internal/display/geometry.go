// Package display models monitors as xrandr reports them and parses the
// --listactivemonitors output into typed records.
package display

import (
	"fmt"
	"strconv"
)

// NoClone is the clone source for a virtual monitor that gets a new output
// instead of taking over an existing one.
const NoClone = "none"

// Geometry is a monitor rectangle in pixels plus its physical size.
type Geometry struct {
	Width    int
	Height   int
	WidthMM  int
	HeightMM int
	X        int
	Y        int
}

// String formats g as <w>/<mmw>x<h>/<mmh>+<x>+<y>, the form xrandr accepts
// for --setmonitor.
func (g Geometry) String() string {
	return fmt.Sprintf("%d/%dx%d/%d%s%s", g.Width, g.WidthMM, g.Height, g.HeightMM, signed(g.X), signed(g.Y))
}

func signed(v int) string {
	if v < 0 {
		return strconv.Itoa(v)
	}
	return "+" + strconv.Itoa(v)
}

// Contains reports whether the point lies inside g.
func (g Geometry) Contains(x, y int) bool {
	return x >= g.X && x < g.X+g.Width && y >= g.Y && y < g.Y+g.Height
}

// GeometryParseError reports listing text that does not match the expected grammar.
type GeometryParseError struct {
	Text  string // offending token or line
	Field string
	Err   error
}

func (e *GeometryParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Field != "" {
		return fmt.Sprintf("malformed geometry %q: bad %s: %v", e.Text, e.Field, e.Err)
	}
	return fmt.Sprintf("malformed monitor listing %q: %v", e.Text, e.Err)
}

func (e *GeometryParseError) Unwrap() error { return e.Err }

// ParseGeometry parses a token of the form <w>/<mmw>x<h>/<mmh>+<x>+<y>.
// Offsets may carry a '-' sign in place of '+'.
func ParseGeometry(token string) (Geometry, error) {
	s := &scanner{text: token}
	var g Geometry

	steps := []struct {
		field string
		dst   *int
		sep   byte // separator that precedes the field; 0 for the first
	}{
		{"width", &g.Width, 0},
		{"physical width", &g.WidthMM, '/'},
		{"height", &g.Height, 'x'},
		{"physical height", &g.HeightMM, '/'},
		{"x offset", &g.X, '+'},
		{"y offset", &g.Y, '+'},
	}
	for _, step := range steps {
		offset := step.sep == '+'
		if step.sep != 0 {
			if err := s.expect(step.sep, offset); err != nil {
				return Geometry{}, &GeometryParseError{Text: token, Field: step.field, Err: err}
			}
		}
		v, err := s.number(offset)
		if err != nil {
			return Geometry{}, &GeometryParseError{Text: token, Field: step.field, Err: err}
		}
		*step.dst = v
	}
	if !s.done() {
		return Geometry{}, &GeometryParseError{Text: token, Field: "trailer", Err: fmt.Errorf("unexpected %q", s.rest())}
	}
	return g, nil
}

type scanner struct {
	text string
	pos  int
	neg  bool
}

func (s *scanner) done() bool   { return s.pos >= len(s.text) }
func (s *scanner) rest() string { return s.text[s.pos:] }

// expect consumes sep. When signed is set, '-' is also accepted and makes
// the following number negative.
func (s *scanner) expect(sep byte, signed bool) error {
	s.neg = false
	if s.done() {
		return fmt.Errorf("expected %q, got end of input", sep)
	}
	c := s.text[s.pos]
	switch {
	case c == sep:
	case signed && c == '-':
		s.neg = true
	default:
		return fmt.Errorf("expected %q, got %q", sep, c)
	}
	s.pos++
	return nil
}

func (s *scanner) number(signed bool) (int, error) {
	start := s.pos
	for !s.done() && s.text[s.pos] >= '0' && s.text[s.pos] <= '9' {
		s.pos++
	}
	if start == s.pos {
		if s.done() {
			return 0, fmt.Errorf("expected digits, got end of input")
		}
		return 0, fmt.Errorf("expected digits, got %q", s.text[s.pos])
	}
	v, err := strconv.Atoi(s.text[start:s.pos])
	if err != nil {
		return 0, err
	}
	if signed && s.neg {
		v = -v
	}
	return v, nil
}
