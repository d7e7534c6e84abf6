package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NextToken returns the token following prev in src, or false at end of
// input. Scanning starts at prev.End, or at 0 if prev is nil; the scanner
// keeps no other state.
//
// Lexical rules:
//   - whitespace and ';' line comments are skipped
//   - '(' and ')' are single-character Open and Close tokens
//   - anything else is a maximal run up to whitespace, '(', ')', ';' or EOF,
//     classified as String ("..." with at least two characters), Integer
//     (leading digit, no '.'), Double (leading digit, contains '.') or
//     Identifier.
func NextToken(src string, prev *Token) (Token, bool) {
	offs := 0
	if prev != nil {
		offs = prev.End
	}

	for offs < len(src) {
		r, w := utf8.DecodeRuneInString(src[offs:])
		switch {
		case unicode.IsSpace(r):
			offs += w
			continue
		case r == '(':
			return Token{Kind: Open, Start: offs, End: offs + 1}, true
		case r == ')':
			return Token{Kind: Close, Start: offs, End: offs + 1}, true
		case r == ';':
			offs = skipComment(src, offs)
			continue
		}
		return scanRun(src, offs, w), true
	}
	return Token{}, false
}

// skipComment returns the offset just past the newline ending the comment
// that starts at offs, or len(src) if the comment runs to end of input.
func skipComment(src string, offs int) int {
	i := strings.IndexByte(src[offs:], '\n')
	if i < 0 {
		return len(src)
	}
	return offs + i + 1
}

// scanRun scans the maximal non-delimiter run starting at start, whose first
// character is w bytes wide, and classifies it.
func scanRun(src string, start, w int) Token {
	end := start + w
	hasDot := false
	for end < len(src) {
		r, w := utf8.DecodeRuneInString(src[end:])
		if isDelimiter(r) {
			break
		}
		if r == '.' {
			hasDot = true
		}
		end += w
	}

	text := src[start:end]
	var kind Kind
	switch {
	case len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"':
		kind = String
	case isDigit(text[0]):
		if hasDot {
			kind = Double
		} else {
			kind = Integer
		}
	default:
		kind = Identifier
	}
	return Token{Kind: kind, Start: start, End: end}
}

// Scanner iterates over the tokens of a source.
type Scanner struct {
	src  *Source
	tok  Token
	ok   bool
	done bool // end of input reached
}

// NewScanner creates a Scanner positioned before the first token of src.
func NewScanner(src *Source) *Scanner {
	return &Scanner{src: src}
}

// Next advances to the next token and reports whether there was one.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}
	var prev *Token
	if s.ok {
		prev = &s.tok
	}
	s.tok, s.ok = NextToken(s.src.text, prev)
	s.done = !s.ok
	return s.ok
}

// Token returns the current token.
func (s *Scanner) Token() Token {
	return s.tok
}

// Text returns the current token's source text.
func (s *Scanner) Text() string {
	return s.tok.Text(s.src.text)
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.src.PosAt(s.tok.Start)
}

// Character classification helpers

// isDigit reports whether b is a decimal digit (0-9).
func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// isDelimiter reports whether r ends an identifier or literal run.
func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')' || r == ';'
}
