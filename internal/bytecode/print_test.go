package bytecode

import (
	"strings"
	"testing"
)

func TestFprint(t *testing.T) {
	inc := &Func{Name: "inc"}
	f := &Func{
		Name:   "program",
		Consts: []interface{}{1, "hi", 2.0},
		Locals: []*Local{{Index: 0, Name: "x"}, {Index: 1, Name: "y"}},
		Code: []Instr{
			{Op: OpConst, Arg: 0},
			{Op: OpStoreLocal, Arg: 0},
			{Op: OpConst, Arg: 2},
			{Op: OpCall, Arg: 1, Callee: inc},
			{Op: OpJumpFalse, Arg: 6},
			{Op: OpLoadArg, Arg: 3},
			{Op: OpConst, Arg: 1},
			{Op: OpReturn},
		},
		Sections: []Section{{StartPC: 0, EndPC: 2, Offset: 0, Length: 9}},
	}

	want := strings.Join([]string{
		"func program(x, y):",
		"  0000  Const 0 {1}",
		"  0001  StoreLocal 0 {x}",
		"  0002  Const 2 {2.0}",
		"  0003  Call inc/1",
		"  0004  JumpFalse 0006",
		"  0005  LoadArg 3",
		`  0006  Const 1 {"hi"}`,
		"  0007  Return",
		"  sections:",
		"    [0000, 0002) 0+9",
		"",
	}, "\n")

	if got := Sprint(f); got != want {
		t.Errorf("Sprint() =\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, "nil"},
		{42, "42"},
		{true, "true"},
		{"a\"b", `"a\"b"`},
		{2.5, "2.5"},
		{3.0, "3.0"},
		{1e21, "1e+21"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpString(t *testing.T) {
	for op := OpInvalid; op < opCount; op++ {
		if op.Info().Name == "" {
			t.Errorf("op %d has no OpInfo entry", op)
		}
	}
	if got := Op(200).String(); got != "Op(200)" {
		t.Errorf("Op(200).String() = %q", got)
	}
}
