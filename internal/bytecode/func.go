package bytecode

import "fmt"

// Func is a compiled function: a flat instruction stream plus the tables
// its instructions refer to.
type Func struct {
	// Name is the function name; the top-level function is "program".
	Name string

	// Code is the instruction stream. It always ends in OpReturn.
	Code []Instr

	// Consts is the constant pool referenced by OpConst.
	Consts []interface{}

	// Locals are the local slots referenced by OpLoadLocal/OpStoreLocal.
	Locals []*Local

	// Sections map instruction ranges back to source spans.
	Sections []Section
}

// String returns the function name.
func (f *Func) String() string {
	return f.Name
}

// Local is a local variable slot of a Func.
type Local struct {
	Index int
	Name  string
}

// String returns a short representation such as "x#0".
func (l *Local) String() string {
	return fmt.Sprintf("%s#%d", l.Name, l.Index)
}

// Instr is a single instruction.
type Instr struct {
	Op     Op
	Arg    int   // constant index, slot, argument index, jump target or argument count
	Callee *Func // OpCall only
}

// Section records that instructions [StartPC, EndPC) were generated from
// the source bytes [Offset, Offset+Length).
type Section struct {
	StartPC, EndPC int
	Offset, Length int
}

// SectionAt returns the innermost section containing pc.
func (f *Func) SectionAt(pc int) (Section, bool) {
	var best Section
	found := false
	for _, s := range f.Sections {
		if pc < s.StartPC || pc >= s.EndPC {
			continue
		}
		if !found || s.EndPC-s.StartPC < best.EndPC-best.StartPC {
			best, found = s, true
		}
	}
	return best, found
}
