package lexer

import (
	"fmt"

	"attrlex/internal/source"

	"fortio.org/safecast"
)

// Cursor представляет собой позицию в файле вместе со строкой и колонкой.
// Все продвижения идут через Bump, поэтому line/col всегда согласованы с Off.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off; defaults to len(File.Content).
	Limit uint32

	line uint32 // 1-based
	col  uint32 // 1-based, считаем руны (байты, не являющиеся continuation)
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{
		File:  f,
		Off:   0,
		Limit: limit,
		line:  1,
		col:   1,
	}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekAt читает байт со смещением n от текущей позиции, или 0 за пределами файла.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.Limit {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// Peek2 читает текущий и следующий байт, если есть, иначе возвращает 0, 0, false
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], true
}

// Peek3 читает текущий, следующий и следующий за ним байт, если есть, иначе возвращает 0, 0, 0, false
func (c *Cursor) Peek3() (b0, b1, b2 byte, ok bool) {
	if c.Off+2 >= c.Limit {
		return 0, 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], c.File.Content[c.Off+2], true
}

// HasPrefix reports whether the unread input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	if uint64(c.Off)+uint64(len(s)) > uint64(c.Limit) {
		return false
	}
	return string(c.File.Content[c.Off:c.Off+uint32(len(s))]) == s
}

// HasPrefixFold is HasPrefix with ASCII case folding.
func (c *Cursor) HasPrefixFold(s string) bool {
	if uint64(c.Off)+uint64(len(s)) > uint64(c.Limit) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if lowerASCII(c.File.Content[c.Off+uint32(i)]) != lowerASCII(s[i]) {
			return false
		}
	}
	return true
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	switch {
	case b == '\n':
		c.line++
		c.col = 1
	case !source.IsContinuationByte(b):
		c.col++
	}
	return b
}

// Advance bumps n bytes (or until EOF).
func (c *Cursor) Advance(n int) {
	for i := 0; i < n && !c.EOF(); i++ {
		c.Bump()
	}
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Bump()
		return true
	}
	return false
}

// Line returns the 1-based line of the current position.
func (c *Cursor) Line() uint32 { return c.line }

// Col returns the 1-based column of the current position.
func (c *Cursor) Col() uint32 { return c.col }

// Mark это метка, что бы быстро получать Span читаемого фрагмента
// и откатываться к ней вместе со строкой и колонкой.
type Mark struct {
	Off  uint32
	Line uint32
	Col  uint32
}

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark{Off: c.Off, Line: c.line, Col: c.col}
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: m.Off,
		End:   c.Off,
	}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = m.Off
	c.line = m.Line
	c.col = m.Col
}

func lowerASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
