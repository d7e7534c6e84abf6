package syntax

import "fmt"

// Pos is a resolved source location. Offset is a byte offset; Line and Col
// are 1-based, with Col counted in bytes. Positions are produced by
// Source.PosAt; the zero value means "no position".
type Pos struct {
	Filename string
	Offset   int
	Line     int
	Col      int
}

// String formats p as "file:line:col", or "line:col" without a file name.
func (p Pos) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col)
}
