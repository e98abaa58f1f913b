// Package observ measures how long each pass of a check takes.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one measured step. Dur stays zero until the phase ends.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer records the phases of one check. Not safe for concurrent use;
// parallel checks keep one timer each and Merge them afterwards.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Track opens a phase and returns the function closing it with a note.
// Closing twice keeps the first duration.
func (t *Timer) Track(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	idx := len(t.phases)
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	closed := false
	return func(note string) {
		if closed {
			return
		}
		closed = true
		p := &t.phases[idx]
		p.Dur = time.Since(p.Start)
		p.Note = note
	}
}

// Merge appends other's phases as "prefix:name".
func (t *Timer) Merge(prefix string, other *Timer) {
	if t == nil || other == nil {
		return
	}
	for _, p := range other.phases {
		if prefix != "" {
			p.Name = prefix + ":" + p.Name
		}
		t.phases = append(t.phases, p)
	}
}

// Phases copies the recorded phases.
func (t *Timer) Phases() []Phase {
	if t == nil {
		return nil
	}
	return append([]Phase(nil), t.phases...)
}

// PhaseReport is the serialised form of a Phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is the serialised form of a Timer. Kind and Path are left for the
// caller to label it.
type Report struct {
	Kind    string        `json:"kind,omitempty"`
	Path    string        `json:"path,omitempty"`
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	var r Report
	if t == nil {
		return r
	}
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note})
	}
	r.TotalMS = millis(total)
	return r
}

// Summary renders one aligned line per phase and a total.
func (r Report) Summary() string {
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		line := fmt.Sprintf("  %-28s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			line += "  // " + p.Note
		}
		sb.WriteString(line + "\n")
	}
	fmt.Fprintf(&sb, "  %-28s %7.2f ms\n", "total", r.TotalMS)
	return sb.String()
}

func (t *Timer) Summary() string { return t.Report().Summary() }

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
