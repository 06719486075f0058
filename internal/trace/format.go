package trace

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format selects how a StreamTracer renders events.
type Format uint8

const (
	FormatAuto   Format = iota // by output file extension
	FormatText                 // one human-readable line per event
	FormatNDJSON               // one JSON object per line
)

// ParseFormat converts "auto", "text" or "ndjson" (alias "json") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent renders ev, including the trailing newline.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return eventJSON(ev)
	}
	return eventText(ev)
}

type jsonEvent struct {
	Time     string  `json:"time"`
	Seq      uint64  `json:"seq"`
	Kind     string  `json:"kind"`
	Scope    string  `json:"scope"`
	SpanID   uint64  `json:"span_id,omitempty"`
	ParentID uint64  `json:"parent_id,omitempty"`
	Name     string  `json:"name"`
	Detail   string  `json:"detail,omitempty"`
	Fields   []Field `json:"fields,omitempty"`
}

func eventJSON(ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Fields:   ev.Fields,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

// eventText: [hh:mm:ss.mmm] →/←/• name (detail) {k=v, ...}
// Дочерние события сдвинуты на два пробела.
func eventText(ev *Event) []byte {
	var sb strings.Builder
	sb.WriteString("[" + ev.Time.Format("15:04:05.000") + "] ")
	if ev.ParentID > 0 {
		sb.WriteString("  ")
	}
	switch ev.Kind {
	case KindSpanBegin:
		sb.WriteString("→ ")
	case KindSpanEnd:
		sb.WriteString("← ")
	case KindPoint:
		sb.WriteString("• ")
	}
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	if len(ev.Fields) > 0 {
		sb.WriteString(" {")
		for i, f := range ev.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Key + "=" + f.Value)
		}
		sb.WriteByte('}')
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
