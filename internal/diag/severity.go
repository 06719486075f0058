package diag

// Severity orders diagnostics: a stray delimiter is a warning, an attribute
// that never closes is an error. Higher values are more severe.
type Severity uint8

const (
	SevInfo    Severity = iota // timings and other observations
	SevWarning                 // recovered: the token stream is still usable
	SevError                   // degraded stream or unreadable file
)

// String returns the upper-case form used by the pretty and JSON renderers.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label returns the lower-case form of the short format ("error LEX1010 ...").
func (s Severity) Label() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}
