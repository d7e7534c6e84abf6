package compile

import "github.com/you-not-fish/tiny/internal/bytecode"

// Sink receives the compiler's output as balanced begin/end calls.
// *bytecode.Builder is the standard implementation.
type Sink interface {
	// BeginRoot starts a function; EndRoot finishes it and returns its
	// handle, which is only ever passed back to BeginDirectCall.
	BeginRoot(name string)
	EndRoot() *bytecode.Func

	BeginBlock()
	EndBlock()
	BeginAdd()
	EndAdd()
	BeginLessThan()
	EndLessThan()
	BeginWhile()
	EndWhile()
	BeginStoreLocal(local *bytecode.Local)
	EndStoreLocal()
	BeginDirectCall(callee *bytecode.Func)
	EndDirectCall()

	EmitLoadConstant(value interface{})
	EmitLoadLocal(local *bytecode.Local)
	EmitLoadArgument(index int)

	// CreateLocal allocates a slot in the current function.
	CreateLocal(name string) *bytecode.Local

	BeginSourceSection()
	EndSourceSection(offset, length int)

	// Err returns the first contract violation seen by the sink.
	Err() error
}

var _ Sink = (*bytecode.Builder)(nil)
