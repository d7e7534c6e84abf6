package syntax

import "strconv"

// Visitor receives the events produced by Walk. Any error returned by a
// callback stops the walk and is returned from Walk with the position of
// the offending token attached.
type Visitor interface {
	// OnOpen is called for "(" followed by the operator name op.
	// The callback may pull identifiers that immediately follow the
	// operator name from ids; walking resumes after the last one pulled.
	OnOpen(op string, ids *Idents) error

	// OnClose is called for the ")" matching the construct opened with op.
	// start and length give the construct's byte span, parentheses included.
	OnClose(op string, start, length int) error

	OnIdentifier(name string) error
	OnInteger(value int) error
	OnDouble(value float64) error

	// OnString receives the string contents without the surrounding quotes.
	OnString(value string) error
}

// Idents is a cursor over the identifiers immediately following an
// operator name. It is only valid during the OnOpen call it is passed to.
type Idents struct {
	src  string
	last Token // last consumed token
}

// Next consumes the next token if it is an identifier and returns its text.
// It returns false, consuming nothing, once the next token is not an
// identifier.
func (it *Idents) Next() (string, bool) {
	tok, ok := NextToken(it.src, &it.last)
	if !ok || tok.Kind != Identifier {
		return "", false
	}
	it.last = tok
	return tok.Text(it.src), true
}

// pending is an open construct awaiting its ")".
type pending struct {
	op    string
	start int // offset of the "("
}

type walker struct {
	src   *Source
	v     Visitor
	stack []pending
}

// Walk tokenizes src in a single pass and reports every construct and leaf
// to v. It validates nesting only: every ")" must close an earlier "(", and
// every "(" must be followed by an identifier. Operator names and argument
// counts are the visitor's concern.
func Walk(src *Source, v Visitor) error {
	w := &walker{src: src, v: v}
	return w.walk()
}

func (w *walker) walk() error {
	text := w.src.text

	var prev *Token
	for {
		cur, ok := NextToken(text, prev)
		if !ok {
			break
		}

		switch cur.Kind {
		case Open:
			op, ok := NextToken(text, &cur)
			if !ok {
				return w.errorf(cur.Start, ErrUnterminatedOpen, "unterminated open: trailing '('")
			}
			if op.Kind != Identifier {
				return w.errorf(op.Start, ErrExpectedIdentifier,
					"expected identifier after '(', got %s %q", op.Kind, op.Text(text))
			}
			name := op.Text(text)
			ids := &Idents{src: text, last: op}
			if err := w.v.OnOpen(name, ids); err != nil {
				return w.wrap(cur.Start, err)
			}
			w.stack = append(w.stack, pending{op: name, start: cur.Start})
			cur = ids.last

		case Close:
			if len(w.stack) == 0 {
				return w.errorf(cur.Start, ErrUnmatchedClose, "unmatched close")
			}
			p := w.stack[len(w.stack)-1]
			w.stack = w.stack[:len(w.stack)-1]
			if err := w.v.OnClose(p.op, p.start, cur.End-p.start); err != nil {
				return w.wrap(cur.Start, err)
			}

		default:
			if err := w.leaf(cur); err != nil {
				return err
			}
		}
		prev = &cur
	}

	if n := len(w.stack); n > 0 {
		p := w.stack[n-1]
		return w.errorf(p.start, ErrUnterminatedOpen, "unterminated open: (%s", p.op)
	}
	return nil
}

// leaf decodes a literal or identifier token and dispatches it.
func (w *walker) leaf(tok Token) error {
	text := tok.Text(w.src.text)

	var err error
	switch tok.Kind {
	case Identifier:
		err = w.v.OnIdentifier(text)
	case Integer:
		n, perr := strconv.Atoi(text)
		if perr != nil {
			return w.errorf(tok.Start, ErrInvalidNumber, "invalid number %q", text)
		}
		err = w.v.OnInteger(n)
	case Double:
		f, perr := strconv.ParseFloat(text, 64)
		if perr != nil {
			return w.errorf(tok.Start, ErrInvalidNumber, "invalid number %q", text)
		}
		err = w.v.OnDouble(f)
	case String:
		err = w.v.OnString(text[1 : len(text)-1])
	}
	if err != nil {
		return w.wrap(tok.Start, err)
	}
	return nil
}
