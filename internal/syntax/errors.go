package syntax

import (
	"errors"
	"fmt"
)

// Structural and lexical error conditions reported by Walk.
var (
	ErrExpectedIdentifier = errors.New("expected identifier")
	ErrUnmatchedClose     = errors.New("unmatched close")
	ErrUnterminatedOpen   = errors.New("unterminated open")
	ErrInvalidNumber      = errors.New("invalid number")
)

// Error is a positioned error produced while walking a source.
// Err is the underlying condition: one of the sentinels above, or the
// error returned by a Visitor callback.
type Error struct {
	Pos Pos
	Msg string
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Unwrap returns the underlying condition.
func (e *Error) Unwrap() error {
	return e.Err
}

// errorf creates an Error for the given condition at offset offs.
func (w *walker) errorf(offs int, cond error, format string, args ...interface{}) error {
	return &Error{
		Pos: w.src.PosAt(offs),
		Msg: fmt.Sprintf(format, args...),
		Err: cond,
	}
}

// wrap attaches the position at offs to an error returned by the visitor.
func (w *walker) wrap(offs int, err error) error {
	var serr *Error
	if errors.As(err, &serr) {
		return err
	}
	return &Error{Pos: w.src.PosAt(offs), Msg: err.Error(), Err: err}
}
