// Package syntax implements lexical analysis and the event-driven walker
// for the Tiny S-expression language.
package syntax

import "fmt"

// Kind represents the type of a lexical token.
type Kind uint8

const (
	String     Kind = iota // "hello"
	Identifier             // add, x, foo-bar
	Integer                // 42
	Double                 // 3.14
	Open                   // (
	Close                  // )

	kindCount
)

// kindNames maps kinds to their string representation.
var kindNames = [...]string{
	String:     "STRING",
	Identifier: "IDENTIFIER",
	Integer:    "INTEGER",
	Double:     "DOUBLE",
	Open:       "OPEN",
	Close:      "CLOSE",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// IsLiteral reports whether k is a literal kind (string or number).
func (k Kind) IsLiteral() bool {
	return k == String || k == Integer || k == Double
}

// Token is a lexical token: a kind plus the half-open byte range
// [Start, End) it covers in the source text.
type Token struct {
	Kind  Kind
	Start int
	End   int
}

// Text returns the token's source text.
func (t Token) Text(src string) string {
	return src[t.Start:t.End]
}

// String returns a short description such as "IDENTIFIER[1:4]".
func (t Token) String() string {
	return fmt.Sprintf("%s[%d:%d]", t.Kind, t.Start, t.End)
}
