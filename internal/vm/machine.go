// Package vm executes bytecode functions.
package vm

import (
	"errors"
	"fmt"

	"github.com/you-not-fish/tiny/internal/bytecode"
)

var (
	ErrGasExhausted  = errors.New("vm: gas exhausted")
	ErrTypeMismatch  = errors.New("vm: type mismatch")
	ErrCallDepth     = errors.New("vm: call depth exceeded")
	ErrInvalidOpcode = errors.New("vm: invalid opcode")
)

// MaxCallDepth bounds nested calls.
const MaxCallDepth = 1024

// Machine runs functions. Values are int, float64, string, bool or nil.
type Machine struct {
	// Gas limits the number of instructions executed; 0 means unlimited.
	Gas int

	steps int
	depth int
}

// RuntimeError is an error raised while executing an instruction.
type RuntimeError struct {
	Func    string
	PC      int
	Section bytecode.Section // source span of the failing construct, if known
	HasSpan bool
	Err     error
}

func (e *RuntimeError) Error() string {
	if e.HasSpan {
		return fmt.Sprintf("%s+%04d (source %d+%d): %v", e.Func, e.PC, e.Section.Offset, e.Section.Length, e.Err)
	}
	return fmt.Sprintf("%s+%04d: %v", e.Func, e.PC, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Steps returns the number of instructions executed so far.
func (m *Machine) Steps() int {
	return m.steps
}

// Run calls fn with args and returns its result. Missing arguments read
// as nil.
func (m *Machine) Run(fn *bytecode.Func, args ...interface{}) (interface{}, error) {
	if m.depth >= MaxCallDepth {
		return nil, ErrCallDepth
	}
	m.depth++
	defer func() { m.depth-- }()

	locals := make([]interface{}, len(fn.Locals))
	var stack []interface{}
	pop := func() interface{} {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}

	fail := func(pc int, err error) error {
		var rerr *RuntimeError
		if errors.As(err, &rerr) {
			return err
		}
		s, ok := fn.SectionAt(pc)
		return &RuntimeError{Func: fn.Name, PC: pc, Section: s, HasSpan: ok, Err: err}
	}

	for pc := 0; pc < len(fn.Code); {
		if m.Gas > 0 && m.steps >= m.Gas {
			return nil, fail(pc, ErrGasExhausted)
		}
		m.steps++

		in := fn.Code[pc]
		pc++
		switch in.Op {
		case bytecode.OpConst:
			stack = append(stack, fn.Consts[in.Arg])
		case bytecode.OpLoadLocal:
			stack = append(stack, locals[in.Arg])
		case bytecode.OpStoreLocal:
			locals[in.Arg] = pop()
		case bytecode.OpLoadArg:
			var v interface{}
			if in.Arg < len(args) {
				v = args[in.Arg]
			}
			stack = append(stack, v)
		case bytecode.OpPop:
			pop()

		case bytecode.OpAdd:
			y, x := pop(), pop()
			a, b, err := ints("add", x, y)
			if err != nil {
				return nil, fail(pc-1, err)
			}
			stack = append(stack, a+b)
		case bytecode.OpLessThan:
			y, x := pop(), pop()
			a, b, err := ints("lt", x, y)
			if err != nil {
				return nil, fail(pc-1, err)
			}
			stack = append(stack, a < b)

		case bytecode.OpJump:
			pc = in.Arg
		case bytecode.OpJumpFalse:
			cond, ok := pop().(bool)
			if !ok {
				return nil, fail(pc-1, fmt.Errorf("%w: condition is not a boolean", ErrTypeMismatch))
			}
			if !cond {
				pc = in.Arg
			}

		case bytecode.OpCall:
			callArgs := make([]interface{}, in.Arg)
			for i := in.Arg - 1; i >= 0; i-- {
				callArgs[i] = pop()
			}
			v, err := m.Run(in.Callee, callArgs...)
			if err != nil {
				return nil, fail(pc-1, err)
			}
			stack = append(stack, v)
		case bytecode.OpReturn:
			return pop(), nil

		default:
			return nil, fail(pc-1, fmt.Errorf("%w %s", ErrInvalidOpcode, in.Op))
		}
	}
	return nil, fail(len(fn.Code), errors.New("vm: missing return"))
}

// ints checks that both operands of op are integers.
func ints(op string, x, y interface{}) (int, int, error) {
	a, ok1 := x.(int)
	b, ok2 := y.(int)
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("%w: %s expects int operands, got %s and %s", ErrTypeMismatch, op, typeName(x), typeName(y))
	}
	return a, b, nil
}

// typeName returns the language-level name of a value's type.
func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "nil"
	case int:
		return "int"
	case float64:
		return "double"
	case string:
		return "string"
	case bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", v)
	}
}
