package compile

import (
	"errors"
	"strings"
	"testing"

	"github.com/you-not-fish/tiny/internal/bytecode"
	"github.com/you-not-fish/tiny/internal/syntax"
)

func build(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Build(syntax.NewSource("test.tiny", src))
	if err != nil {
		t.Fatalf("Build(%q): %v", src, err)
	}
	for _, fn := range prog.Funcs {
		if err := bytecode.Verify(fn); err != nil {
			t.Errorf("Verify(%s): %v", fn.Name, err)
		}
	}
	return prog
}

func TestBuildProgram(t *testing.T) {
	prog := build(t, "(def sum a b (add a b))\n(call sum 1 2)")

	if len(prog.Funcs) != 2 {
		t.Fatalf("got %d funcs, want 2", len(prog.Funcs))
	}
	if prog.Main != prog.Funcs[1] || prog.Main.Name != "program" {
		t.Errorf("Main = %v, want the last func named program", prog.Main)
	}

	want := strings.Join([]string{
		"func sum(a, b):",
		"  0000  LoadArg 0",
		"  0001  StoreLocal 0 {a}",
		"  0002  LoadArg 1",
		"  0003  StoreLocal 1 {b}",
		"  0004  LoadLocal 0 {a}",
		"  0005  LoadLocal 1 {b}",
		"  0006  Add",
		"  0007  Return",
		"  sections:",
		"    [0004, 0007) 13+9",
		"",
		"func program():",
		"  0000  Const 0 {1}",
		"  0001  Const 1 {2}",
		"  0002  Call sum/2",
		"  0003  Return",
		"  sections:",
		"    [0000, 0000) 0+23",
		"    [0000, 0003) 24+14",
		"    [0000, 0003) 0+38",
		"",
	}, "\n")

	var sb strings.Builder
	bytecode.FprintAll(&sb, prog.Funcs)
	if got := sb.String(); got != want {
		t.Errorf("listing:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildLoop(t *testing.T) {
	prog := build(t, "(set i 0) (while (lt i 3) (set i (add i 1))) i")
	if len(prog.Main.Locals) != 1 || prog.Main.Locals[0].Name != "i" {
		t.Errorf("locals = %v, want [i]", prog.Main.Locals)
	}
	last := prog.Main.Code[len(prog.Main.Code)-2]
	if last.Op != bytecode.OpLoadLocal {
		t.Errorf("result instruction = %s, want LoadLocal", last.Op)
	}
}

func TestBuildReportsSinkViolations(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(add 1)", "test.tiny:1:7: bytecode: add: want 2 value operands, got 1 children"},
		{"(lt 1 2 3)", "test.tiny:1:10: bytecode: lt: want 2 value operands, got 3 children"},
		{"(while (lt 1 2))", "test.tiny:1:16: bytecode: while: want condition and body, got 1 children"},
		{"(set x)", "test.tiny:1:7: bytecode: store x#0: want 1 value operand, got 0 children"},
		{"(add (set x 1) 2)", "test.tiny:1:17: bytecode: add: want 2 value operands"},
		{"(def f a a) (call f (set x 1))", "test.tiny:1:30: bytecode: call f: argument produces no value"},
		{"(block\n  (add 1))", "test.tiny:2:9: bytecode: add: want 2 value operands, got 1 children"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Build(syntax.NewSource("test.tiny", tt.src))
			if err == nil {
				t.Fatalf("Build(%q) succeeded", tt.src)
			}
			if !strings.HasPrefix(err.Error(), tt.want) {
				t.Errorf("Build(%q) = %q, want prefix %q", tt.src, err, tt.want)
			}
			var serr *syntax.Error
			if !errors.As(err, &serr) {
				t.Errorf("Build(%q) error %T carries no position", tt.src, err)
			}
		})
	}
}

func TestBuildStopsAtFirstViolation(t *testing.T) {
	_, err := Build(syntax.NewSource("test.tiny", "(add 1)\n(call nope)"))
	if err == nil {
		t.Fatal("Build succeeded")
	}
	if errors.Is(err, ErrUnknownFunction) {
		t.Fatalf("error = %q, want the earlier add violation", err)
	}
	if want := "test.tiny:1:7: bytecode: add:"; !strings.HasPrefix(err.Error(), want) {
		t.Errorf("error = %q, want prefix %q", err, want)
	}
}
