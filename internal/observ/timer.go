package observ

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Phase is one measured step of a run.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
	open  bool
}

// Timer records phases in the order they begin. Safe for concurrent use.
// A nil *Timer accepts every call and measures nothing, so callers can keep
// timing code unconditional.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin opens a phase and returns its handle for End (-1 on a nil Timer).
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now(), open: true})
	return len(t.phases) - 1
}

// End closes phase idx. Unknown or already closed handles are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) || !t.phases[idx].open {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
	p.open = false
}

// PhaseReport — фаза в сериализуемом виде.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report — все закрытые фазы и их сумма в миллисекундах.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the closed phases. Phases still open are left out.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		r     Report
		total time.Duration
	)
	for _, p := range t.phases {
		if p.open {
			continue
		}
		total += p.Dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note})
	}
	r.TotalMS = millis(total)
	return r
}

// WriteSummary prints one aligned line per phase followed by the total:
//
//	config     0.1 ms
//	tokenize   2.3 ms  // 12 files
//	total      2.4 ms
func (t *Timer) WriteSummary(w io.Writer) {
	r := t.Report()
	width := len("total")
	for _, p := range r.Phases {
		width = max(width, len(p.Name))
	}
	for _, p := range r.Phases {
		fmt.Fprintf(w, "%-*s %6.1f ms", width, p.Name, p.DurationMS)
		if p.Note != "" {
			fmt.Fprintf(w, "  // %s", p.Note)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%-*s %6.1f ms\n", width, "total", r.TotalMS)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
