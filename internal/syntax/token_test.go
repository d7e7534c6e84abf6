package syntax

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{String, "STRING"},
		{Identifier, "IDENTIFIER"},
		{Integer, "INTEGER"},
		{Double, "DOUBLE"},
		{Open, "OPEN"},
		{Close, "CLOSE"},
		{Kind(99), "kind(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestKindIsLiteral(t *testing.T) {
	for k := Kind(0); k < kindCount; k++ {
		want := k == String || k == Integer || k == Double
		if got := k.IsLiteral(); got != want {
			t.Errorf("%s.IsLiteral() = %v, want %v", k, got, want)
		}
	}
}

func TestTokenText(t *testing.T) {
	src := "(add 1 2)"
	tok := Token{Kind: Identifier, Start: 1, End: 4}
	if got := tok.Text(src); got != "add" {
		t.Errorf("Text() = %q, want %q", got, "add")
	}
	if got := tok.String(); got != "IDENTIFIER[1:4]" {
		t.Errorf("String() = %q, want %q", got, "IDENTIFIER[1:4]")
	}
}
