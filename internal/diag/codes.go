package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedHeredoc      Code = 1005
	// Атрибуты и разделители внутри атрибутов
	LexUnterminatedAttribute Code = 1010
	LexUnbalancedDelimiter   Code = 1011
	LexUnclosedDelimiter     Code = 1012

	// Проверки инвариантов потока токенов
	AttrInfo           Code = 2000
	AttrPairingBroken  Code = 2001
	AttrOverlap        Code = 2002
	AttrReconstruction Code = 2003

	// I/O
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Проект / конфигурация
	ProjInfo          Code = 5000
	ProjInvalidConfig Code = 5001

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number literal",
		LexUnterminatedHeredoc:      "Unterminated heredoc",
		LexUnterminatedAttribute:    "Unterminated attribute",
		LexUnbalancedDelimiter:      "Closing delimiter without opener inside attribute",
		LexUnclosedDelimiter:        "Delimiter closed implicitly inside attribute",
		AttrInfo:                    "Attribute stream information",
		AttrPairingBroken:           "Attribute opener/closer pairing broken",
		AttrOverlap:                 "Attribute spans overlap",
		AttrReconstruction:          "Token stream does not reconstruct the source",
		IOLoadFileError:             "I/O load file error",
		IOCacheError:                "Token cache error",
		ProjInfo:                    "Project information",
		ProjInvalidConfig:           "Invalid configuration",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("ATR%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
