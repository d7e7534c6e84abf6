package syntax

import (
	"io"
	"sort"
)

// Source is an immutable source buffer with a line table for mapping
// byte offsets back to line and column numbers.
type Source struct {
	filename string
	text     string
	lines    []int // byte offset of the first character of each line
}

// NewSource creates a Source from the given text.
func NewSource(filename, text string) *Source {
	s := &Source{
		filename: filename,
		text:     text,
		lines:    []int{0},
	}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			s.lines = append(s.lines, i+1)
		}
	}
	return s
}

// ReadSource reads the entire content of r into a Source.
func ReadSource(filename string, r io.Reader) (*Source, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewSource(filename, string(buf)), nil
}

// Filename returns the source file name.
func (s *Source) Filename() string {
	return s.filename
}

// Text returns the complete source text.
func (s *Source) Text() string {
	return s.text
}

// Len returns the length of the source in bytes.
func (s *Source) Len() int {
	return len(s.text)
}

// PosAt returns the position of the given byte offset.
// Offsets past the end clamp to the end of the source.
func (s *Source) PosAt(offs int) Pos {
	if offs < 0 {
		offs = 0
	}
	if offs > len(s.text) {
		offs = len(s.text)
	}
	// Index of the last line starting at or before offs.
	i := sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > offs }) - 1
	return Pos{
		Filename: s.filename,
		Offset:   offs,
		Line:     i + 1,
		Col:      offs - s.lines[i] + 1,
	}
}
