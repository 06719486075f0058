package lexer

import (
	"attrlex/internal/source"
	"attrlex/internal/token"
)

type mode uint8

const (
	modeCode mode = iota
	modeHTML
)

// Lexer is the general tokenizer. It classifies every byte of the file, so the
// concatenated Text of its tokens always equals the file content. Attribute pairing
// is done on top of it by Tokenize.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	mode   mode
	prev   token.Kind // последний значимый (не trivia) токен
}

func New(file *source.File, opts Options) *Lexer {
	lx := &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		mode:   modeCode,
		prev:   token.Invalid,
	}
	if opts.InlineHTML {
		lx.mode = modeHTML
	}
	return lx
}

// Next возвращает следующий токен, включая пробелы и комментарии.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.cursor.EOF() {
		m := lx.cursor.Mark()
		return lx.makeToken(token.EOF, m)
	}

	tok := lx.scan()
	if !tok.Kind.IsTrivia() {
		lx.prev = tok.Kind
	}
	return tok
}

func (lx *Lexer) scan() token.Token {
	if lx.mode == modeHTML {
		return lx.scanInlineHTML()
	}

	ch := lx.cursor.Peek()
	switch {
	case isSpace(ch):
		return lx.scanWhitespace()

	case ch == '\n':
		return lx.scanNewlines()

	case ch == '#':
		// `#[` — атрибут, иначе `#` начинает однострочный комментарий
		if tok, ok := lx.recognizeAttribute(); ok {
			return tok
		}
		return lx.scanLineComment()

	case ch == '/' && (lx.cursor.PeekAt(1) == '/' || lx.cursor.PeekAt(1) == '*'):
		return lx.scanSlashComment()

	case ch == '?' && lx.cursor.PeekAt(1) == '>':
		return lx.scanCloseTag()

	case ch == '$' && isVariableStart(lx.cursor.PeekAt(1)):
		return lx.scanVariable()

	case isIdentStartByte(ch):
		return lx.scanIdentOrKeyword()

	case ch >= utf8RuneSelf:
		// Возможный Unicode идентификатор → scanIdentOrKeyword() разберётся
		return lx.scanIdentOrKeyword()

	case isDec(ch):
		return lx.scanNumber()

	case ch == '.' && lx.isNumberAfterDot():
		return lx.scanNumber()

	case ch == '\'' || ch == '"' || ch == '`':
		return lx.scanString(ch)

	case ch == '<' && lx.cursor.HasPrefix("<<<"):
		if tok, ok := lx.scanHeredoc(); ok {
			return tok
		}
		return lx.scanOperatorOrPunct()

	default:
		return lx.scanOperatorOrPunct()
	}
}

// makeToken builds a token covering [m, cursor). Index and attribute links are
// left unset; the emitter assigns them.
func (lx *Lexer) makeToken(kind token.Kind, m Mark) token.Token {
	sp := lx.cursor.SpanFrom(m)
	return token.Token{
		Kind:            kind,
		Span:            sp,
		Text:            string(lx.file.Content[sp.Start:sp.End]),
		Index:           token.NoIndex,
		Line:            m.Line,
		Col:             m.Col,
		AttributeOpener: token.NoIndex,
		AttributeCloser: token.NoIndex,
	}
}
