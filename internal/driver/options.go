package driver

import (
	"errors"
	"fmt"
	"strings"

	"attrlex/internal/source"
)

// Policy decides what a run does with unterminated attribute spans.
type Policy uint8

const (
	// PolicyBestEffort returns the degraded token stream without an error.
	PolicyBestEffort Policy = iota
	// PolicyStrict returns the result together with ErrUnterminatedAttribute.
	PolicyStrict
)

// ErrUnterminatedAttribute is wrapped by strict runs when a file ends inside an attribute.
var ErrUnterminatedAttribute = errors.New("unterminated attribute")

func (p Policy) String() string {
	switch p {
	case PolicyBestEffort:
		return "best-effort"
	case PolicyStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParsePolicy converts "best-effort" or "strict" (case-insensitive) to a Policy.
// The empty string means best-effort.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "best-effort", "besteffort":
		return PolicyBestEffort, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyBestEffort, fmt.Errorf("invalid policy: %q (expected: best-effort|strict)", s)
	}
}

// Options control a tokenization run. The zero value tokenizes UTF-8 code
// buffers with unlimited diagnostics on GOMAXPROCS workers.
type Options struct {
	MaxDiagnostics int
	Jobs           int             // 0 = GOMAXPROCS
	InlineHTML     bool            // start files in HTML mode (PHP file semantics)
	Encoding       source.Encoding // "" = utf-8
	Policy         Policy
	Extensions     []string // for TokenizeDir; nil = DefaultExtensions

	Cache    *TokenCache  // nil: no cache
	Progress ProgressSink // nil: no progress events
	Timings  bool         // append an ObsTimings diagnostic per file
}

// DefaultExtensions are the file suffixes TokenizeDir picks up when Options.Extensions is empty.
var DefaultExtensions = []string{".php"}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}

func (o Options) encoding() source.Encoding {
	if o.Encoding == "" {
		return source.EncodingUTF8
	}
	return o.Encoding
}
