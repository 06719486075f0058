package source

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names the character encoding of a file on disk.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingLatin1      Encoding = "latin1"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingUTF16       Encoding = "utf-16"
)

// ErrUnknownEncoding is returned by ParseEncoding for unsupported names.
var ErrUnknownEncoding = errors.New("unknown encoding")

// ParseEncoding maps a configuration value to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "latin1", "latin-1", "iso-8859-1":
		return EncodingLatin1, nil
	case "windows-1252", "cp1252":
		return EncodingWindows1252, nil
	case "utf-16", "utf16":
		return EncodingUTF16, nil
	default:
		return "", fmt.Errorf("%w: %q (expected utf-8|latin1|windows-1252|utf-16)", ErrUnknownEncoding, s)
	}
}

// Decode transcodes raw file bytes to UTF-8. The second result reports whether any
// transcoding happened. UTF-16 input with a byte order mark is recognised even when
// enc is EncodingUTF8.
func Decode(raw []byte, enc Encoding) ([]byte, bool, error) {
	if enc == EncodingUTF8 || enc == "" {
		if !hasUTF16BOM(raw) {
			return raw, false, nil
		}
		enc = EncodingUTF16
	}

	var dec *encoding.Decoder
	switch enc {
	case EncodingLatin1:
		dec = charmap.ISO8859_1.NewDecoder()
	case EncodingWindows1252:
		dec = charmap.Windows1252.NewDecoder()
	case EncodingUTF16:
		dec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	default:
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownEncoding, string(enc))
	}

	out, err := dec.Bytes(raw)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", enc, err)
	}
	if !utf8.Valid(out) {
		return nil, false, fmt.Errorf("decode %s: result is not valid UTF-8", enc)
	}
	return out, true, nil
}

func hasUTF16BOM(raw []byte) bool {
	if len(raw) < 2 {
		return false
	}
	return (raw[0] == 0xFF && raw[1] == 0xFE) || (raw[0] == 0xFE && raw[1] == 0xFF)
}
