// Package compile translates Tiny source into Sink calls in a single pass
// over the walker's events, without building a syntax tree.
package compile

import (
	"fmt"

	"github.com/you-not-fish/tiny/internal/bytecode"
	"github.com/you-not-fish/tiny/internal/scope"
	"github.com/you-not-fish/tiny/internal/syntax"
)

const (
	rootScopeName = "root"
	programName   = "program"
)

// Program is the result of compiling a source with a bytecode.Builder.
type Program struct {
	// Main is the top-level function.
	Main *bytecode.Func

	// Funcs lists every function in completion order; Main is last.
	Funcs []*bytecode.Func
}

// Build compiles src into a new bytecode.Builder.
func Build(src *syntax.Source) (*Program, error) {
	b := bytecode.NewBuilder()
	main, err := Compile(src, b)
	if err != nil {
		return nil, err
	}
	if err := b.Finish(); err != nil {
		return nil, err
	}
	return &Program{Main: main, Funcs: b.Funcs()}, nil
}

// Compile compiles src into sink and returns the top-level function,
// named "program". Any error aborts compilation; the sink is then left in
// an unspecified state.
func Compile(src *syntax.Source, sink Sink) (*bytecode.Func, error) {
	c := &compiler{
		sink:   sink,
		scopes: scope.NewChain[*bytecode.Local, *bytecode.Func](rootScopeName),
	}

	sink.BeginRoot(programName)
	sink.BeginSourceSection()
	if err := syntax.Walk(src, c); err != nil {
		return nil, err
	}
	sink.EndSourceSection(0, src.Len())
	main := sink.EndRoot()

	if err := sink.Err(); err != nil {
		return nil, err
	}
	return main, nil
}

// compiler is the syntax.Visitor that drives the sink. Each callback
// returns the sink's first contract violation, so the walk stops at the
// construct that caused it.
type compiler struct {
	sink   Sink
	scopes *scope.Chain[*bytecode.Local, *bytecode.Func]
	open   []Op // operators of the enclosing constructs, innermost last
}

// handler maps an operator to its begin and end emission.
type handler struct {
	open  func(c *compiler, ids *syntax.Idents) error
	close func(c *compiler) error
}

var handlers = [opCount]handler{
	OpAdd:      {open: (*compiler).openAdd, close: (*compiler).closeAdd},
	OpLessThan: {open: (*compiler).openLessThan, close: (*compiler).closeLessThan},
	OpWhile:    {open: (*compiler).openWhile, close: (*compiler).closeWhile},
	OpBlock:    {open: (*compiler).openBlock, close: (*compiler).closeBlock},
	OpSet:      {open: (*compiler).openSet, close: (*compiler).closeSet},
	OpDef:      {open: (*compiler).openDef, close: (*compiler).closeDef},
	OpCall:     {open: (*compiler).openCall, close: (*compiler).closeCall},
}

func (c *compiler) OnOpen(name string, ids *syntax.Idents) error {
	op, ok := LookupOp(name)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnsupportedOperator, name)
	}
	c.sink.BeginSourceSection()
	if err := handlers[op].open(c, ids); err != nil {
		return err
	}
	c.open = append(c.open, op)
	return c.sink.Err()
}

func (c *compiler) OnClose(name string, start, length int) error {
	n := len(c.open)
	if n == 0 {
		return fmt.Errorf("close %s without open construct", name)
	}
	op := c.open[n-1]
	c.open = c.open[:n-1]
	if err := handlers[op].close(c); err != nil {
		return err
	}
	c.sink.EndSourceSection(start, length)
	return c.sink.Err()
}

// OnIdentifier loads a local of the current function. Locals of enclosing
// functions are not visible.
func (c *compiler) OnIdentifier(name string) error {
	local, ok := c.scopes.LookupLocal(name)
	if !ok {
		return fmt.Errorf("%w %s", ErrUnknownLocal, name)
	}
	c.sink.EmitLoadLocal(local)
	return c.sink.Err()
}

func (c *compiler) OnInteger(value int) error {
	c.sink.EmitLoadConstant(value)
	return c.sink.Err()
}

func (c *compiler) OnDouble(value float64) error {
	c.sink.EmitLoadConstant(value)
	return c.sink.Err()
}

func (c *compiler) OnString(value string) error {
	c.sink.EmitLoadConstant(value)
	return c.sink.Err()
}

// declareLocal returns the slot for name in the current scope, creating
// it on first use.
func (c *compiler) declareLocal(name string) *bytecode.Local {
	return c.scopes.DeclareLocal(name, c.sink.CreateLocal)
}

// pullName pulls the identifier naming the target of op.
func pullName(op Op, ids *syntax.Idents) (string, error) {
	n, ok := ids.Next()
	if !ok {
		return "", fmt.Errorf("%w: %s needs an identifier", ErrMissingName, op)
	}
	return n, nil
}

func (c *compiler) openAdd(*syntax.Idents) error {
	c.sink.BeginAdd()
	return nil
}

func (c *compiler) closeAdd() error {
	c.sink.EndAdd()
	return nil
}

func (c *compiler) openLessThan(*syntax.Idents) error {
	c.sink.BeginLessThan()
	return nil
}

func (c *compiler) closeLessThan() error {
	c.sink.EndLessThan()
	return nil
}

func (c *compiler) openWhile(*syntax.Idents) error {
	c.sink.BeginWhile()
	return nil
}

func (c *compiler) closeWhile() error {
	c.sink.EndWhile()
	return nil
}

func (c *compiler) openBlock(*syntax.Idents) error {
	c.sink.BeginBlock()
	return nil
}

func (c *compiler) closeBlock() error {
	c.sink.EndBlock()
	return nil
}

// openSet: (set name value)
func (c *compiler) openSet(ids *syntax.Idents) error {
	target, err := pullName(OpSet, ids)
	if err != nil {
		return err
	}
	c.sink.BeginStoreLocal(c.declareLocal(target))
	return nil
}

func (c *compiler) closeSet() error {
	c.sink.EndStoreLocal()
	return nil
}

// openDef: (def name param... body...)
//
// The definition is wrapped in a block so it occupies a statement of the
// enclosing body. Each parameter is copied from its argument into a local
// on entry.
func (c *compiler) openDef(ids *syntax.Idents) error {
	fname, err := pullName(OpDef, ids)
	if err != nil {
		return err
	}
	c.scopes.Push(fname)
	c.sink.BeginBlock()
	c.sink.BeginRoot(fname)

	for index := 0; ; index++ {
		param, ok := ids.Next()
		if !ok {
			break
		}
		c.sink.BeginStoreLocal(c.declareLocal(param))
		c.sink.EmitLoadArgument(index)
		c.sink.EndStoreLocal()
	}
	return nil
}

// closeDef registers the finished function in the enclosing scope. Until
// this point the name is unresolvable, so a function cannot call itself.
func (c *compiler) closeDef() error {
	fn := c.sink.EndRoot()
	s, err := c.scopes.Pop()
	if err != nil {
		return err
	}
	c.scopes.DeclareFunction(s.Name, fn)
	c.sink.EndBlock()
	return nil
}

// openCall: (call name arg...)
func (c *compiler) openCall(ids *syntax.Idents) error {
	callee, err := pullName(OpCall, ids)
	if err != nil {
		return err
	}
	fn, ok := c.scopes.LookupFunction(callee)
	if !ok {
		return fmt.Errorf("%w %s", ErrUnknownFunction, callee)
	}
	c.sink.BeginDirectCall(fn)
	return nil
}

func (c *compiler) closeCall() error {
	c.sink.EndDirectCall()
	return nil
}
