package token

import "strconv"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates a byte sequence the lexer could not classify. The token still
	// carries its text.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Whitespace is a run of spaces, tabs, carriage returns, form feeds or vertical tabs.
	Whitespace
	// Newline is a run of '\n' bytes.
	Newline
	// LineComment represents `// ...` and `# ...` comments, without the line break.
	LineComment
	// BlockComment represents `/* ... */`.
	BlockComment
	// DocComment represents `/** ... */`.
	DocComment

	// OpenTag represents `<?php`, `<?=` and `<?`, including one trailing line break or space.
	OpenTag
	// CloseTag represents `?>`.
	CloseTag
	// InlineHTML is raw text outside the PHP tags.
	InlineHTML

	// AttributeOpen represents the `#[` sequence that starts an attribute span.
	AttributeOpen
	// AttributeClose represents the `]` that ends an attribute span.
	AttributeClose

	// Ident represents an identifier token.
	Ident
	// Variable represents `$name`.
	Variable

	// IntLit represents the integer literal token.
	IntLit
	// FloatLit represents the float literal token.
	FloatLit
	// StringLit represents single-quoted, double-quoted and backtick strings.
	StringLit
	// Heredoc represents a heredoc or nowdoc block including its terminator.
	Heredoc

	keywordBeg
	KwAbstract     // abstract
	KwAnd          // and
	KwArray        // array
	KwAs           // as
	KwBreak        // break
	KwCase         // case
	KwCatch        // catch
	KwClass        // class
	KwClone        // clone
	KwConst        // const
	KwContinue     // continue
	KwDefault      // default
	KwDo           // do
	KwEcho         // echo
	KwElse         // else
	KwElseif       // elseif
	KwEmpty        // empty
	KwEnum         // enum
	KwExtends      // extends
	KwFinal        // final
	KwFinally      // finally
	KwFn           // fn
	KwFor          // for
	KwForeach      // foreach
	KwFunction     // function
	KwGlobal       // global
	KwIf           // if
	KwImplements   // implements
	KwInclude      // include
	KwIncludeOnce  // include_once
	KwInstanceof   // instanceof
	KwInsteadof    // insteadof
	KwInterface    // interface
	KwIsset        // isset
	KwList         // list
	KwMatch        // match
	KwNamespace    // namespace
	KwNew          // new
	KwOr           // or
	KwPrint        // print
	KwPrivate      // private
	KwProtected    // protected
	KwPublic       // public
	KwReadonly     // readonly
	KwRequire      // require
	KwRequireOnce  // require_once
	KwReturn       // return
	KwStatic       // static
	KwSwitch       // switch
	KwThrow        // throw
	KwTrait        // trait
	KwTry          // try
	KwUnset        // unset
	KwUse          // use
	KwVar          // var
	KwWhile        // while
	KwXor          // xor
	KwYield        // yield
	keywordEnd

	Plus             // +
	Minus            // -
	Star             // *
	StarStar         // **
	Slash            // /
	Percent          // %
	Dot              // .
	Assign           // =
	PlusAssign       // +=
	MinusAssign      // -=
	StarAssign       // *=
	StarStarAssign   // **=
	SlashAssign      // /=
	PercentAssign    // %=
	DotAssign        // .=
	AmpAssign        // &=
	PipeAssign       // |=
	CaretAssign      // ^=
	ShlAssign        // <<=
	ShrAssign        // >>=
	CoalesceAssign   // ??=
	EqEq             // ==
	EqEqEq           // ===
	BangEq           // != and <>
	BangEqEq         // !==
	Lt               // <
	LtEq             // <=
	Gt               // >
	GtEq             // >=
	Spaceship        // <=>
	Shl              // <<
	Shr              // >>
	Amp              // &
	Pipe             // |
	Caret            // ^
	Tilde            // ~
	Bang             // !
	AndAnd           // &&
	OrOr             // ||
	Inc              // ++
	Dec              // --
	Question         // ?
	QuestionQuestion // ??
	Colon            // :
	ColonColon       // ::
	Semicolon        // ;
	Comma            // ,
	Arrow            // ->
	NullsafeArrow    // ?->
	FatArrow         // =>
	Ellipsis         // ...
	Backslash        // \
	At               // @
	Dollar           // $
	LParen           // (
	RParen           // )
	LBrace           // {
	RBrace           // }
	LBracket         // [
	RBracket         // ]

	kindCount
)

var kindNames = [...]string{
	Invalid:      "Invalid",
	EOF:          "EOF",
	Whitespace:   "Whitespace",
	Newline:      "Newline",
	LineComment:  "LineComment",
	BlockComment: "BlockComment",
	DocComment:   "DocComment",
	OpenTag:      "OpenTag",
	CloseTag:     "CloseTag",
	InlineHTML:   "InlineHTML",

	AttributeOpen:  "AttributeOpen",
	AttributeClose: "AttributeClose",

	Ident:     "Ident",
	Variable:  "Variable",
	IntLit:    "IntLit",
	FloatLit:  "FloatLit",
	StringLit: "StringLit",
	Heredoc:   "Heredoc",

	KwAbstract:    "KwAbstract",
	KwAnd:         "KwAnd",
	KwArray:       "KwArray",
	KwAs:          "KwAs",
	KwBreak:       "KwBreak",
	KwCase:        "KwCase",
	KwCatch:       "KwCatch",
	KwClass:       "KwClass",
	KwClone:       "KwClone",
	KwConst:       "KwConst",
	KwContinue:    "KwContinue",
	KwDefault:     "KwDefault",
	KwDo:          "KwDo",
	KwEcho:        "KwEcho",
	KwElse:        "KwElse",
	KwElseif:      "KwElseif",
	KwEmpty:       "KwEmpty",
	KwEnum:        "KwEnum",
	KwExtends:     "KwExtends",
	KwFinal:       "KwFinal",
	KwFinally:     "KwFinally",
	KwFn:          "KwFn",
	KwFor:         "KwFor",
	KwForeach:     "KwForeach",
	KwFunction:    "KwFunction",
	KwGlobal:      "KwGlobal",
	KwIf:          "KwIf",
	KwImplements:  "KwImplements",
	KwInclude:     "KwInclude",
	KwIncludeOnce: "KwIncludeOnce",
	KwInstanceof:  "KwInstanceof",
	KwInsteadof:   "KwInsteadof",
	KwInterface:   "KwInterface",
	KwIsset:       "KwIsset",
	KwList:        "KwList",
	KwMatch:       "KwMatch",
	KwNamespace:   "KwNamespace",
	KwNew:         "KwNew",
	KwOr:          "KwOr",
	KwPrint:       "KwPrint",
	KwPrivate:     "KwPrivate",
	KwProtected:   "KwProtected",
	KwPublic:      "KwPublic",
	KwReadonly:    "KwReadonly",
	KwRequire:     "KwRequire",
	KwRequireOnce: "KwRequireOnce",
	KwReturn:      "KwReturn",
	KwStatic:      "KwStatic",
	KwSwitch:      "KwSwitch",
	KwThrow:       "KwThrow",
	KwTrait:       "KwTrait",
	KwTry:         "KwTry",
	KwUnset:       "KwUnset",
	KwUse:         "KwUse",
	KwVar:         "KwVar",
	KwWhile:       "KwWhile",
	KwXor:         "KwXor",
	KwYield:       "KwYield",

	Plus:             "Plus",
	Minus:            "Minus",
	Star:             "Star",
	StarStar:         "StarStar",
	Slash:            "Slash",
	Percent:          "Percent",
	Dot:              "Dot",
	Assign:           "Assign",
	PlusAssign:       "PlusAssign",
	MinusAssign:      "MinusAssign",
	StarAssign:       "StarAssign",
	StarStarAssign:   "StarStarAssign",
	SlashAssign:      "SlashAssign",
	PercentAssign:    "PercentAssign",
	DotAssign:        "DotAssign",
	AmpAssign:        "AmpAssign",
	PipeAssign:       "PipeAssign",
	CaretAssign:      "CaretAssign",
	ShlAssign:        "ShlAssign",
	ShrAssign:        "ShrAssign",
	CoalesceAssign:   "CoalesceAssign",
	EqEq:             "EqEq",
	EqEqEq:           "EqEqEq",
	BangEq:           "BangEq",
	BangEqEq:         "BangEqEq",
	Lt:               "Lt",
	LtEq:             "LtEq",
	Gt:               "Gt",
	GtEq:             "GtEq",
	Spaceship:        "Spaceship",
	Shl:              "Shl",
	Shr:              "Shr",
	Amp:              "Amp",
	Pipe:             "Pipe",
	Caret:            "Caret",
	Tilde:            "Tilde",
	Bang:             "Bang",
	AndAnd:           "AndAnd",
	OrOr:             "OrOr",
	Inc:              "Inc",
	Dec:              "Dec",
	Question:         "Question",
	QuestionQuestion: "QuestionQuestion",
	Colon:            "Colon",
	ColonColon:       "ColonColon",
	Semicolon:        "Semicolon",
	Comma:            "Comma",
	Arrow:            "Arrow",
	NullsafeArrow:    "NullsafeArrow",
	FatArrow:         "FatArrow",
	Ellipsis:         "Ellipsis",
	Backslash:        "Backslash",
	At:               "At",
	Dollar:           "Dollar",
	LParen:           "LParen",
	RParen:           "RParen",
	LBrace:           "LBrace",
	RBrace:           "RBrace",
	LBracket:         "LBracket",
	RBracket:         "RBracket",
}

// String returns the constant name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool { return keywordBeg < k && k < keywordEnd }

// IsComment reports whether k is a line, block or doc comment.
func (k Kind) IsComment() bool {
	return k == LineComment || k == BlockComment || k == DocComment
}

// IsTrivia reports whether k carries no syntactic meaning (whitespace and comments).
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Newline || k.IsComment()
}
