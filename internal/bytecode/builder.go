package bytecode

import "fmt"

// frameKind identifies the operation a frame is building.
type frameKind uint8

const (
	frameRoot frameKind = iota
	frameBlock
	frameAdd
	frameLessThan
	frameWhile
	frameStoreLocal
	frameCall
)

var frameNames = [...]string{
	frameRoot:       "root",
	frameBlock:      "block",
	frameAdd:        "add",
	frameLessThan:   "lt",
	frameWhile:      "while",
	frameStoreLocal: "store-local",
	frameCall:       "call",
}

func (k frameKind) String() string {
	return frameNames[k]
}

// frame is an operation between its begin and end call.
type frame struct {
	kind      frameKind
	children  int
	lastValue bool // the most recent child left a value
	voidChild bool // a child that must produce a value did not

	local     *Local // frameStoreLocal
	callee    *Func  // frameCall
	loopStart int    // frameWhile: pc of the condition
	exitJump  int    // frameWhile: pc of the JumpFalse to patch
}

// root is a function under construction.
type root struct {
	fn       *Func
	frames   []frame
	sections []int // start pcs of open source sections
}

// Builder constructs Funcs from balanced begin/end calls. Every begin
// pushes a frame and the matching end pops and finalizes it; roots may
// nest, and a nested root becomes a separate Func that is not a child of
// the enclosing operation.
//
// Contract violations (unbalanced calls, wrong operand counts, operations
// outside a root) are recorded; the first one is returned by Err and
// Finish, and later calls are ignored.
type Builder struct {
	roots []*root
	funcs []*Func // completed, in completion order
	err   error   // first contract violation
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Err returns the first contract violation, if any.
func (b *Builder) Err() error {
	return b.err
}

// Funcs returns the completed functions in the order they were ended.
func (b *Builder) Funcs() []*Func {
	return b.funcs
}

// Finish checks that every root has been ended and returns the first
// contract violation.
func (b *Builder) Finish() error {
	if b.err == nil && len(b.roots) > 0 {
		b.errorf("root %s not ended", b.roots[len(b.roots)-1].fn.Name)
	}
	return b.err
}

func (b *Builder) errorf(format string, args ...interface{}) {
	if b.err == nil {
		b.err = fmt.Errorf("bytecode: "+format, args...)
	}
}

// cur returns the root under construction, or nil after a violation.
func (b *Builder) cur() *root {
	if b.err != nil {
		return nil
	}
	if len(b.roots) == 0 {
		b.errorf("operation outside of a root")
		return nil
	}
	return b.roots[len(b.roots)-1]
}

func (r *root) top() *frame {
	return &r.frames[len(r.frames)-1]
}

func (r *root) emit(op Op, arg int) int {
	r.fn.Code = append(r.fn.Code, Instr{Op: op, Arg: arg})
	return len(r.fn.Code) - 1
}

func (r *root) pc() int {
	return len(r.fn.Code)
}

// beforeChild prepares the parent frame for a new child.
func (r *root) beforeChild() {
	f := r.top()
	switch f.kind {
	case frameRoot, frameBlock:
		// Only the last child's value is kept.
		if f.children > 0 && f.lastValue {
			r.emit(OpPop, 0)
		}
	case frameWhile:
		if f.children == 1 {
			f.exitJump = r.emit(OpJumpFalse, -1)
		}
	}
}

// afterChild records a completed child in the parent frame.
func (r *root) afterChild(value bool) {
	f := r.top()
	switch f.kind {
	case frameAdd, frameLessThan, frameStoreLocal, frameCall:
		if !value {
			f.voidChild = true
		}
	case frameWhile:
		if f.children == 0 && !value {
			f.voidChild = true
		}
	}
	f.children++
	f.lastValue = value
}

// begin starts a new operation of the given kind as a child of the
// current frame.
func (b *Builder) begin(f frame) *root {
	r := b.cur()
	if r == nil {
		return nil
	}
	r.beforeChild()
	r.frames = append(r.frames, f)
	return r
}

// end pops the current frame, which must be of the given kind.
func (b *Builder) end(kind frameKind) (*root, frame, bool) {
	r := b.cur()
	if r == nil {
		return nil, frame{}, false
	}
	f := *r.top()
	if f.kind != kind || len(r.frames) == 1 {
		b.errorf("end %s does not match begin %s", kind, f.kind)
		return nil, frame{}, false
	}
	r.frames = r.frames[:len(r.frames)-1]
	return r, f, true
}

// leaf emits a single value-producing instruction as a child.
func (b *Builder) leaf(op Op, arg int) {
	r := b.cur()
	if r == nil {
		return
	}
	r.beforeChild()
	r.emit(op, arg)
	r.afterChild(true)
}

// BeginRoot starts a new function.
func (b *Builder) BeginRoot(name string) {
	if b.err != nil {
		return
	}
	r := &root{fn: &Func{Name: name}}
	r.frames = append(r.frames, frame{kind: frameRoot})
	b.roots = append(b.roots, r)
}

// EndRoot finishes the current function, which returns the value of its
// last child or nil, and returns it.
func (b *Builder) EndRoot() *Func {
	r := b.cur()
	if r == nil {
		if n := len(b.roots); n > 0 {
			b.roots = b.roots[:n-1]
		}
		return nil
	}
	if len(r.frames) != 1 {
		b.errorf("end root %s with open %s", r.fn.Name, r.top().kind)
		return nil
	}
	if len(r.sections) != 0 {
		b.errorf("end root %s with %d open source sections", r.fn.Name, len(r.sections))
		return nil
	}
	if f := r.top(); f.children == 0 || !f.lastValue {
		r.emit(OpConst, r.constant(nil))
	}
	r.emit(OpReturn, 0)

	b.roots = b.roots[:len(b.roots)-1]
	b.funcs = append(b.funcs, r.fn)
	return r.fn
}

// BeginBlock starts a sequence whose value is that of its last child.
func (b *Builder) BeginBlock() {
	b.begin(frame{kind: frameBlock})
}

// EndBlock ends the current block.
func (b *Builder) EndBlock() {
	r, f, ok := b.end(frameBlock)
	if !ok {
		return
	}
	r.afterChild(f.children > 0 && f.lastValue)
}

// BeginAdd starts an integer addition of two operands.
func (b *Builder) BeginAdd() {
	b.begin(frame{kind: frameAdd})
}

// EndAdd ends the current addition.
func (b *Builder) EndAdd() {
	b.endBinary(frameAdd, OpAdd)
}

// BeginLessThan starts an integer comparison of two operands.
func (b *Builder) BeginLessThan() {
	b.begin(frame{kind: frameLessThan})
}

// EndLessThan ends the current comparison.
func (b *Builder) EndLessThan() {
	b.endBinary(frameLessThan, OpLessThan)
}

func (b *Builder) endBinary(kind frameKind, op Op) {
	r, f, ok := b.end(kind)
	if !ok {
		return
	}
	if f.children != 2 || f.voidChild {
		b.errorf("%s: want 2 value operands, got %d children", kind, f.children)
		return
	}
	r.emit(op, 0)
	r.afterChild(true)
}

// BeginWhile starts a loop. Its first child is the condition and its
// second the body.
func (b *Builder) BeginWhile() {
	r := b.cur()
	if r == nil {
		return
	}
	r.beforeChild()
	r.frames = append(r.frames, frame{kind: frameWhile, loopStart: r.pc(), exitJump: -1})
}

// EndWhile ends the current loop.
func (b *Builder) EndWhile() {
	r, f, ok := b.end(frameWhile)
	if !ok {
		return
	}
	if f.children != 2 || f.voidChild {
		b.errorf("while: want condition and body, got %d children", f.children)
		return
	}
	if f.lastValue {
		r.emit(OpPop, 0)
	}
	r.emit(OpJump, f.loopStart)
	r.fn.Code[f.exitJump].Arg = r.pc()
	r.afterChild(false)
}

// BeginStoreLocal starts a store of its single child into local.
func (b *Builder) BeginStoreLocal(local *Local) {
	b.begin(frame{kind: frameStoreLocal, local: local})
}

// EndStoreLocal ends the current store.
func (b *Builder) EndStoreLocal() {
	r, f, ok := b.end(frameStoreLocal)
	if !ok {
		return
	}
	if f.children != 1 || f.voidChild {
		b.errorf("store %s: want 1 value operand, got %d children", f.local, f.children)
		return
	}
	r.emit(OpStoreLocal, f.local.Index)
	r.afterChild(false)
}

// BeginDirectCall starts a call of callee; every child is an argument.
func (b *Builder) BeginDirectCall(callee *Func) {
	if callee == nil && b.err == nil {
		b.errorf("call of nil function")
		return
	}
	b.begin(frame{kind: frameCall, callee: callee})
}

// EndDirectCall ends the current call.
func (b *Builder) EndDirectCall() {
	r, f, ok := b.end(frameCall)
	if !ok {
		return
	}
	if f.voidChild {
		b.errorf("call %s: argument produces no value", f.callee.Name)
		return
	}
	pc := r.emit(OpCall, f.children)
	r.fn.Code[pc].Callee = f.callee
	r.afterChild(true)
}

// EmitLoadConstant pushes a constant.
func (b *Builder) EmitLoadConstant(value interface{}) {
	r := b.cur()
	if r == nil {
		return
	}
	b.leaf(OpConst, r.constant(value))
}

// EmitLoadLocal pushes the value of local.
func (b *Builder) EmitLoadLocal(local *Local) {
	b.leaf(OpLoadLocal, local.Index)
}

// EmitLoadArgument pushes the argument at index.
func (b *Builder) EmitLoadArgument(index int) {
	b.leaf(OpLoadArg, index)
}

// CreateLocal allocates a new slot in the current function.
func (b *Builder) CreateLocal(name string) *Local {
	r := b.cur()
	if r == nil {
		return &Local{Index: -1, Name: name}
	}
	l := &Local{Index: len(r.fn.Locals), Name: name}
	r.fn.Locals = append(r.fn.Locals, l)
	return l
}

// BeginSourceSection marks the start of code generated for a source span.
// Sections are transparent: they are not operations.
func (b *Builder) BeginSourceSection() {
	r := b.cur()
	if r == nil {
		return
	}
	r.sections = append(r.sections, r.pc())
}

// EndSourceSection closes the innermost open section and attributes it to
// the source bytes [offset, offset+length).
func (b *Builder) EndSourceSection(offset, length int) {
	r := b.cur()
	if r == nil {
		return
	}
	n := len(r.sections)
	if n == 0 {
		b.errorf("end source section without begin")
		return
	}
	start := r.sections[n-1]
	r.sections = r.sections[:n-1]
	r.fn.Sections = append(r.fn.Sections, Section{
		StartPC: start,
		EndPC:   r.pc(),
		Offset:  offset,
		Length:  length,
	})
}

// constant returns the pool index of value, adding it if needed.
func (r *root) constant(value interface{}) int {
	switch value.(type) {
	case nil, int, float64, string, bool:
		for i, c := range r.fn.Consts {
			if c == value {
				return i
			}
		}
	}
	r.fn.Consts = append(r.fn.Consts, value)
	return len(r.fn.Consts) - 1
}
