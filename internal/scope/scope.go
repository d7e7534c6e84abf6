// Package scope implements the lexical scope chain used while compiling:
// one scope per function nesting level, each mapping names to local slots
// and to completed functions.
package scope

import (
	"fmt"
	"sort"
	"strings"
)

// ID addresses a scope within its Chain.
type ID int32

// None is the parent of the root scope.
const None ID = -1

// Scope is a single nesting level. L is the local slot handle type and F
// the function handle type, both supplied by the code generator.
type Scope[L, F any] struct {
	Name   string
	Parent ID

	locals    map[string]L
	functions map[string]F
}

// Chain is an arena of scopes where the active scopes always form a
// prefix: pushing appends a child of the current scope, popping
// truncates it.
type Chain[L, F any] struct {
	scopes []Scope[L, F]
}

// NewChain creates a chain holding a single root scope with the given name.
func NewChain[L, F any](rootName string) *Chain[L, F] {
	c := &Chain[L, F]{}
	c.scopes = append(c.scopes, newScope[L, F](rootName, None))
	return c
}

func newScope[L, F any](name string, parent ID) Scope[L, F] {
	return Scope[L, F]{
		Name:      name,
		Parent:    parent,
		locals:    make(map[string]L),
		functions: make(map[string]F),
	}
}

// Current returns the innermost scope.
func (c *Chain[L, F]) Current() ID {
	return ID(len(c.scopes) - 1)
}

// Depth returns the number of active scopes.
func (c *Chain[L, F]) Depth() int {
	return len(c.scopes)
}

// Scope returns the scope with the given ID. The pointer is valid until
// the next Push or Pop.
func (c *Chain[L, F]) Scope(id ID) *Scope[L, F] {
	return &c.scopes[id]
}

// Push opens a child of the current scope and makes it current.
func (c *Chain[L, F]) Push(name string) ID {
	c.scopes = append(c.scopes, newScope[L, F](name, c.Current()))
	return c.Current()
}

// Pop discards the current scope and returns it; its parent becomes
// current. The root scope cannot be popped.
func (c *Chain[L, F]) Pop() (*Scope[L, F], error) {
	if len(c.scopes) == 1 {
		return nil, fmt.Errorf("cannot pop root scope %q", c.scopes[0].Name)
	}
	s := c.scopes[len(c.scopes)-1]
	c.scopes = c.scopes[:len(c.scopes)-1]
	return &s, nil
}

// DeclareLocal returns the slot for name in the current scope, calling
// alloc to create it on first use. Later declarations of the same name
// reuse the first slot.
func (c *Chain[L, F]) DeclareLocal(name string, alloc func(name string) L) L {
	s := &c.scopes[c.Current()]
	if l, ok := s.locals[name]; ok {
		return l
	}
	l := alloc(name)
	s.locals[name] = l
	return l
}

// LookupLocal returns the slot for name in the current scope only.
// Locals of enclosing scopes are not visible.
func (c *Chain[L, F]) LookupLocal(name string) (L, bool) {
	l, ok := c.scopes[c.Current()].locals[name]
	return l, ok
}

// DeclareFunction registers fn under name in the current scope.
func (c *Chain[L, F]) DeclareFunction(name string, fn F) {
	c.scopes[c.Current()].functions[name] = fn
}

// LookupFunction returns the function registered under name in the
// current scope or the nearest enclosing scope that has one.
func (c *Chain[L, F]) LookupFunction(name string) (F, bool) {
	for id := c.Current(); id != None; id = c.scopes[id].Parent {
		if fn, ok := c.scopes[id].functions[name]; ok {
			return fn, true
		}
	}
	var zero F
	return zero, false
}

// Locals returns the local names of s, sorted.
func (s *Scope[L, F]) Locals() []string {
	return sortedKeys(s.locals)
}

// Functions returns the function names of s, sorted.
func (s *Scope[L, F]) Functions() []string {
	return sortedKeys(s.functions)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns a string representation of the active chain for debugging.
func (c *Chain[L, F]) String() string {
	var buf strings.Builder
	for i := range c.scopes {
		s := &c.scopes[i]
		prefix := strings.Repeat("  ", i)
		fmt.Fprintf(&buf, "%sscope %s {\n", prefix, s.Name)
		for _, name := range s.Locals() {
			fmt.Fprintf(&buf, "%s  local %s\n", prefix, name)
		}
		for _, name := range s.Functions() {
			fmt.Fprintf(&buf, "%s  func %s\n", prefix, name)
		}
	}
	for i := len(c.scopes) - 1; i >= 0; i-- {
		fmt.Fprintf(&buf, "%s}\n", strings.Repeat("  ", i))
	}
	return buf.String()
}
