// Package bytecode implements the stack-machine code that Tiny programs
// compile to, and the Builder that constructs it from nested begin/end
// calls.
package bytecode

import "fmt"

// Op represents a bytecode operation code.
type Op uint8

const (
	OpInvalid Op = iota

	OpConst      // push Consts[Arg]
	OpLoadLocal  // push Locals[Arg]
	OpStoreLocal // pop into Locals[Arg]
	OpLoadArg    // push argument Arg
	OpPop        // discard top of stack

	OpAdd      // int + int
	OpLessThan // int < int → bool

	OpJump      // pc = Arg
	OpJumpFalse // pop bool; if false, pc = Arg

	OpCall   // pop Arg arguments, call Callee, push result
	OpReturn // pop result and return

	opCount // sentinel; must be last
)

// OpInfo holds metadata about an operation.
type OpInfo struct {
	Name   string // human-readable name
	Pops   int    // operands popped; OpCall pops Arg instead
	Pushes int    // results pushed
	Jump   bool   // Arg is a jump target
}

// opInfoTable maps each Op to its OpInfo.
var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpConst:      {Name: "Const", Pushes: 1},
	OpLoadLocal:  {Name: "LoadLocal", Pushes: 1},
	OpStoreLocal: {Name: "StoreLocal", Pops: 1},
	OpLoadArg:    {Name: "LoadArg", Pushes: 1},
	OpPop:        {Name: "Pop", Pops: 1},

	OpAdd:      {Name: "Add", Pops: 2, Pushes: 1},
	OpLessThan: {Name: "LessThan", Pops: 2, Pushes: 1},

	OpJump:      {Name: "Jump", Jump: true},
	OpJumpFalse: {Name: "JumpFalse", Pops: 1, Jump: true},

	OpCall:   {Name: "Call", Pushes: 1},
	OpReturn: {Name: "Return", Pops: 1},
}

// Info returns the metadata for o.
func (o Op) Info() OpInfo {
	if o < opCount {
		return opInfoTable[o]
	}
	return OpInfo{}
}

// String returns the name of the operation.
func (o Op) String() string {
	if o < opCount && opInfoTable[o].Name != "" {
		return opInfoTable[o].Name
	}
	return fmt.Sprintf("Op(%d)", o)
}

// StackEffect returns the number of values popped and pushed by an
// instruction with operation o and argument arg.
func (o Op) StackEffect(arg int) (pops, pushes int) {
	info := o.Info()
	if o == OpCall {
		return arg, info.Pushes
	}
	return info.Pops, info.Pushes
}
