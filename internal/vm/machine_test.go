package vm

import (
	"errors"
	"strings"
	"testing"

	"github.com/you-not-fish/tiny/internal/compile"
	"github.com/you-not-fish/tiny/internal/syntax"
)

func build(t *testing.T, text string) *compile.Program {
	t.Helper()
	prog, err := compile.Build(syntax.NewSource("test.tiny", text))
	if err != nil {
		t.Fatalf("Build(%q): %v", text, err)
	}
	return prog
}

func TestRunResults(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want interface{}
	}{
		{"empty", "", nil},
		{"constant", "42", 42},
		{"string", `"hi"`, "hi"},
		{"double", "1.5", 1.5},
		{"add", "(add 1 2)", 3},
		{"nested add", "(add (add 1 2) (add 3 4))", 10},
		{"less than", "(lt 1 2)", true},
		{"not less than", "(lt 2 2)", false},
		{"block value", "(block 1 2 3)", 3},
		{"set then read", "(set x 5) x", 5},
		{"while is void", "(set i 0) (while (lt i 3) (set i (add i 1)))", nil},
		{
			"sum loop",
			"(set i 0) (set s 0) (while (lt i 3) (block (set s (add s i)) (set i (add i 1)))) s",
			3,
		},
		{"call", "(def sum a b (add a b)) (call sum 1 2)", 3},
		{"call nested", "(def inc n (add n 1)) (call inc (call inc 1))", 3},
		{"missing argument", "(def f a (block a)) (call f)", nil},
		{"outer function", "(def one 1) (def two (add (call one) (call one))) (call two)", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := build(t, tt.src)
			var m Machine
			got, err := m.Run(prog.Main)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got != tt.want {
				t.Errorf("result = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    error
		message string
	}{
		{"add string", `(add "a" 1)`, ErrTypeMismatch, "add expects int operands, got string and int"},
		{"add double", "(add 1.5 1)", ErrTypeMismatch, "got double and int"},
		{"lt nil", "(def f a (lt a 1)) (call f)", ErrTypeMismatch, "lt expects int operands, got nil and int"},
		{"non-boolean condition", "(while 1 2)", ErrTypeMismatch, "condition is not a boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := build(t, tt.src)
			var m Machine
			_, err := m.Run(prog.Main)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not contain %q", err, tt.message)
			}
		})
	}
}

func TestRuntimeErrorSpan(t *testing.T) {
	prog := build(t, `(set x 1) (add "a" x)`)
	var m Machine
	_, err := m.Run(prog.Main)

	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("error = %v, want *RuntimeError", err)
	}
	if rerr.Func != "program" {
		t.Errorf("Func = %q, want program", rerr.Func)
	}
	if !rerr.HasSpan || rerr.Section.Offset != 10 || rerr.Section.Length != 11 {
		t.Errorf("span = %v %+v, want offset 10 length 11", rerr.HasSpan, rerr.Section)
	}
}

func TestRuntimeErrorInCallee(t *testing.T) {
	prog := build(t, `(def f a (add a "b")) (call f 1)`)
	var m Machine
	_, err := m.Run(prog.Main)

	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("error = %v, want *RuntimeError", err)
	}
	if rerr.Func != "f" {
		t.Errorf("Func = %q, want the callee f", rerr.Func)
	}
}

func TestGasLimit(t *testing.T) {
	prog := build(t, "(while (lt 0 1) 0)")
	m := Machine{Gas: 100}
	_, err := m.Run(prog.Main)
	if !errors.Is(err, ErrGasExhausted) {
		t.Fatalf("error = %v, want %v", err, ErrGasExhausted)
	}
	if m.Steps() != 100 {
		t.Errorf("Steps = %d, want 100", m.Steps())
	}
}

func TestGasCountsCallee(t *testing.T) {
	prog := build(t, "(def f (add 1 2)) (call f)")

	var unlimited Machine
	if _, err := unlimited.Run(prog.Main); err != nil {
		t.Fatal(err)
	}
	total := unlimited.Steps()

	m := Machine{Gas: total}
	if _, err := m.Run(prog.Main); err != nil {
		t.Fatalf("Run with exact gas: %v", err)
	}

	m = Machine{Gas: total - 1}
	if _, err := m.Run(prog.Main); !errors.Is(err, ErrGasExhausted) {
		t.Fatalf("error = %v, want %v", err, ErrGasExhausted)
	}
}
