package syntax

import "testing"

func TestPosString(t *testing.T) {
	tests := []struct {
		name string
		src  *Source
		offs int
		want string
	}{
		{"with filename", NewSource("loop.tiny", "(while\n  (lt i 3))"), 9, "loop.tiny:2:3"},
		{"without filename", NewSource("", "(add 1 2)"), 5, "1:6"},
		{"start", NewSource("main.tiny", ""), 0, "main.tiny:1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.src.PosAt(tt.offs).String(); got != tt.want {
				t.Errorf("PosAt(%d).String() = %q, want %q", tt.offs, got, tt.want)
			}
		})
	}
}
