package compile

import "errors"

// Resolution errors. The walker reports them wrapped in a *syntax.Error
// carrying the source position.
var (
	ErrUnknownLocal        = errors.New("unknown local")
	ErrUnknownFunction     = errors.New("unknown function")
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrMissingName         = errors.New("missing name")
)
