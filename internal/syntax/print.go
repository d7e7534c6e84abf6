package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Printer is a read-only Visitor that re-renders the event stream as
// indented S-expression text. Each construct starts on a new line.
type Printer struct {
	w       io.Writer
	err     error // first write error
	indent  int
	started bool
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Trace walks src and writes its re-rendered form to w.
func Trace(w io.Writer, src *Source) error {
	p := NewPrinter(w)
	if err := Walk(src, p); err != nil {
		return err
	}
	if p.started {
		p.printf("\n")
	}
	return p.err
}

// Sprint returns the re-rendered form of src.
func Sprint(src *Source) (string, error) {
	var sb strings.Builder
	err := Trace(&sb, src)
	return sb.String(), err
}

func (p *Printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// leaf writes a space-separated leaf.
func (p *Printer) leaf(text string) error {
	if p.started {
		p.printf(" ")
	}
	p.printf("%s", text)
	p.started = true
	return p.err
}

func (p *Printer) OnOpen(op string, _ *Idents) error {
	if p.started {
		p.printf("\n")
	}
	p.printf("%s(%s", strings.Repeat("  ", p.indent), op)
	p.started = true
	p.indent++
	return p.err
}

func (p *Printer) OnClose(string, int, int) error {
	p.printf(")")
	p.indent--
	return p.err
}

func (p *Printer) OnIdentifier(name string) error {
	return p.leaf(name)
}

func (p *Printer) OnInteger(value int) error {
	return p.leaf(strconv.Itoa(value))
}

func (p *Printer) OnDouble(value float64) error {
	return p.leaf(FormatDouble(value))
}

func (p *Printer) OnString(value string) error {
	return p.leaf(`"` + value + `"`)
}

// FormatDouble formats f so that it scans back as a Double token:
// the result always contains a '.'.
func FormatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
