package bytecode

import (
	"errors"
	"fmt"
	"strings"
)

// Verify checks the structural integrity of a function: operand ranges,
// jump targets, and a consistent operand stack depth on every path.
// It returns an error describing all violations found, or nil if valid.
func Verify(f *Func) error {
	var errs []string

	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	n := len(f.Code)
	if n == 0 {
		add("func %s: no instructions", f.Name)
		return combineErrors(errs)
	}
	if f.Code[n-1].Op != OpReturn {
		add("func %s: last instruction is %s, want Return", f.Name, f.Code[n-1].Op)
	}

	// 1. Operands are in range.
	for pc, in := range f.Code {
		switch {
		case in.Op == OpInvalid || in.Op >= opCount:
			add("func %s, %04d: invalid op %d", f.Name, pc, in.Op)
		case in.Op == OpConst && (in.Arg < 0 || in.Arg >= len(f.Consts)):
			add("func %s, %04d: constant %d out of range", f.Name, pc, in.Arg)
		case (in.Op == OpLoadLocal || in.Op == OpStoreLocal) && (in.Arg < 0 || in.Arg >= len(f.Locals)):
			add("func %s, %04d: local %d out of range", f.Name, pc, in.Arg)
		case in.Op == OpLoadArg && in.Arg < 0:
			add("func %s, %04d: negative argument index", f.Name, pc)
		case in.Op.Info().Jump && (in.Arg < 0 || in.Arg >= n):
			add("func %s, %04d: jump target %d out of range", f.Name, pc, in.Arg)
		case in.Op == OpCall && in.Callee == nil:
			add("func %s, %04d: call has no callee", f.Name, pc)
		case in.Op == OpCall && in.Arg < 0:
			add("func %s, %04d: negative argument count", f.Name, pc)
		}
	}
	if len(errs) > 0 {
		return combineErrors(errs)
	}

	// 2. Local slots are numbered densely.
	for i, l := range f.Locals {
		if l.Index != i {
			add("func %s: local %s has index %d, want %d", f.Name, l.Name, l.Index, i)
		}
	}

	// 3. Stack depth agrees on every path and never underflows.
	depth := make([]int, n)
	for i := range depth {
		depth[i] = -1
	}
	depth[0] = 0
	work := []int{0}
	for len(work) > 0 {
		pc := work[len(work)-1]
		work = work[:len(work)-1]
		in := f.Code[pc]

		pops, pushes := in.Op.StackEffect(in.Arg)
		if depth[pc] < pops {
			add("func %s, %04d: %s pops %d with depth %d", f.Name, pc, in.Op, pops, depth[pc])
			continue
		}
		d := depth[pc] - pops + pushes

		if in.Op == OpReturn {
			if d != 0 {
				add("func %s, %04d: Return leaves %d values on the stack", f.Name, pc, d)
			}
			continue
		}

		var succs []int
		if in.Op != OpJump && pc+1 < n {
			succs = append(succs, pc+1)
		}
		if in.Op.Info().Jump {
			succs = append(succs, in.Arg)
		}
		for _, s := range succs {
			switch depth[s] {
			case -1:
				depth[s] = d
				work = append(work, s)
			case d:
			default:
				add("func %s, %04d: stack depth %d, reached with %d from %04d", f.Name, s, depth[s], d, pc)
			}
		}
	}

	// 4. Sections lie within the code.
	for _, s := range f.Sections {
		if s.StartPC < 0 || s.StartPC > s.EndPC || s.EndPC > n {
			add("func %s: section [%d, %d) out of range", f.Name, s.StartPC, s.EndPC)
		}
	}

	return combineErrors(errs)
}

func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.New(strings.Join(errs, "\n"))
}
