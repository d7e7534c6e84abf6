package bytecode

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes a listing of f to w.
//
// Format:
//
//	func add(a, b):
//	  0000  LoadArg 0
//	  0001  StoreLocal 0 {a}
//	  ...
//	  0007  Return
//	  sections:
//	    [0007, 0008) 22+11
func Fprint(w io.Writer, f *Func) {
	names := make([]string, len(f.Locals))
	for i, l := range f.Locals {
		names[i] = l.Name
	}
	fmt.Fprintf(w, "func %s(%s):\n", f.Name, strings.Join(names, ", "))

	for pc, in := range f.Code {
		fmt.Fprintf(w, "  %04d  %s\n", pc, formatInstr(f, in))
	}

	if len(f.Sections) > 0 {
		fmt.Fprintf(w, "  sections:\n")
		for _, s := range f.Sections {
			fmt.Fprintf(w, "    [%04d, %04d) %d+%d\n", s.StartPC, s.EndPC, s.Offset, s.Length)
		}
	}
}

// formatInstr formats a single instruction.
func formatInstr(f *Func, in Instr) string {
	var sb strings.Builder
	sb.WriteString(in.Op.String())

	switch in.Op {
	case OpConst:
		fmt.Fprintf(&sb, " %d", in.Arg)
		if in.Arg >= 0 && in.Arg < len(f.Consts) {
			fmt.Fprintf(&sb, " {%s}", FormatValue(f.Consts[in.Arg]))
		}
	case OpLoadLocal, OpStoreLocal:
		fmt.Fprintf(&sb, " %d", in.Arg)
		if in.Arg >= 0 && in.Arg < len(f.Locals) {
			fmt.Fprintf(&sb, " {%s}", f.Locals[in.Arg].Name)
		}
	case OpLoadArg:
		fmt.Fprintf(&sb, " %d", in.Arg)
	case OpJump, OpJumpFalse:
		fmt.Fprintf(&sb, " %04d", in.Arg)
	case OpCall:
		name := "<nil>"
		if in.Callee != nil {
			name = in.Callee.Name
		}
		fmt.Fprintf(&sb, " %s/%d", name, in.Arg)
	}
	return sb.String()
}

// FormatValue formats a runtime or constant value for display.
func FormatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Sprint returns the listing of f as a string.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}

// FprintAll writes the listings of funcs to w, separated by blank lines.
func FprintAll(w io.Writer, funcs []*Func) {
	for i, f := range funcs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		Fprint(w, f)
	}
}
