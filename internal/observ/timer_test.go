package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	load := tm.Begin("load")
	tm.End(load, "3 files")
	lex := tm.Begin("tokenize")
	tm.End(lex, "")
	tm.End(lex, "closed twice")
	tm.End(99, "ignored")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Name != "load" || report.Phases[0].Note != "3 files" {
		t.Fatalf("unexpected first phase: %+v", report.Phases[0])
	}
	if report.Phases[1].Note != "" {
		t.Fatalf("second End must be ignored, got note %q", report.Phases[1].Note)
	}
}

func TestOpenPhasesAreSkipped(t *testing.T) {
	tm := NewTimer()
	tm.Begin("render")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("open phase leaked into report: %+v", r.Phases)
	}
}

func TestWriteSummary(t *testing.T) {
	tm := NewTimer()
	tm.End(tm.Begin("config"), "")
	tm.End(tm.Begin("tokenize"), "12 files")

	var sb strings.Builder
	tm.WriteSummary(&sb)
	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", sb.String())
	}
	if !strings.HasPrefix(lines[0], "config   ") || !strings.HasSuffix(lines[1], "ms  // 12 files") ||
		!strings.HasPrefix(lines[2], "total    ") {
		t.Fatalf("unexpected summary:\n%s", sb.String())
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if r := tm.Report(); r.TotalMS != 0 || len(r.Phases) != 0 {
		t.Fatalf("expected empty report, got %+v", r)
	}
}
