package compile

import "fmt"

// Op is an operator that may follow "(".
type Op uint8

const (
	opInvalid Op = iota

	OpAdd      // (add x y)
	OpLessThan // (lt x y)
	OpWhile    // (while cond body)
	OpBlock    // (block stmt...)
	OpSet      // (set name value)
	OpDef      // (def name param... body...)
	OpCall     // (call name arg...)

	opCount // sentinel; must be last
)

var opNames = [opCount]string{
	opInvalid:  "invalid",
	OpAdd:      "add",
	OpLessThan: "lt",
	OpWhile:    "while",
	OpBlock:    "block",
	OpSet:      "set",
	OpDef:      "def",
	OpCall:     "call",
}

var opLookup = func() map[string]Op {
	m := make(map[string]Op, opCount)
	for op := opInvalid + 1; op < opCount; op++ {
		m[opNames[op]] = op
	}
	return m
}()

// LookupOp returns the operator with the given name.
func LookupOp(name string) (Op, bool) {
	op, ok := opLookup[name]
	return op, ok
}

// String returns the operator's source name.
func (op Op) String() string {
	if op < opCount {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", op)
}
