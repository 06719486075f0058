package lexer

import (
	"github.com/emirpasic/gods/v2/stacks/arraystack"
)

type delimKind uint8

const (
	delimAttribute delimKind = iota + 1 // #[
	delimParen                          // (
	delimBracket                        // [
	delimBrace                          // {
)

func (k delimKind) String() string {
	switch k {
	case delimAttribute:
		return "#["
	case delimParen:
		return "("
	case delimBracket:
		return "["
	case delimBrace:
		return "{"
	default:
		return "?"
	}
}

// closedBy reports whether the closing byte c ends an entry of kind k.
// ']' закрывает и '[' и '#['.
func (k delimKind) closedBy(c byte) bool {
	switch k {
	case delimParen:
		return c == ')'
	case delimBracket, delimAttribute:
		return c == ']'
	case delimBrace:
		return c == '}'
	}
	return false
}

// delimEntry is one pending opener: its kind and the index of its token.
type delimEntry struct {
	kind  delimKind
	index int
}

// delimStack tracks pending openers of the attribute span being built. It lives
// only while at least one attribute is open.
type delimStack struct {
	entries *arraystack.Stack[delimEntry]
	attrs   int // сколько '#[' сейчас на стеке
}

func newDelimStack() *delimStack {
	return &delimStack{entries: arraystack.New[delimEntry]()}
}

func (d *delimStack) push(kind delimKind, index int) {
	d.entries.Push(delimEntry{kind: kind, index: index})
	if kind == delimAttribute {
		d.attrs++
	}
}

func (d *delimStack) pop() (delimEntry, bool) {
	e, ok := d.entries.Pop()
	if ok && e.kind == delimAttribute {
		d.attrs--
	}
	return e, ok
}

func (d *delimStack) top() (delimEntry, bool) {
	return d.entries.Peek()
}

func (d *delimStack) empty() bool { return d.entries.Empty() }

func (d *delimStack) depth() int { return d.entries.Size() }

// attributeDepth returns the number of attribute spans currently open.
func (d *delimStack) attributeDepth() int { return d.attrs }

// search looks for the entry closed by c, from the top down. It never looks past
// the innermost attribute entry: that entry either matches (c == ']') or stops the
// search. skip is the number of entries above the match.
func (d *delimStack) search(c byte) (skip int, ok bool) {
	// от вершины, без копирования стека
	it := d.entries.Iterator()
	for it.Next() {
		e := it.Value()
		if e.kind.closedBy(c) {
			return it.Index(), true
		}
		if e.kind == delimAttribute {
			return 0, false
		}
	}
	return 0, false
}

// drain pops every entry, innermost first.
func (d *delimStack) drain() []delimEntry {
	out := make([]delimEntry, 0, d.depth())
	for {
		e, ok := d.pop()
		if !ok {
			return out
		}
		out = append(out, e)
	}
}
