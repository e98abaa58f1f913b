package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerTrackAndMerge(t *testing.T) {
	file := NewTimer()
	done := file.Track("declare")
	time.Sleep(time.Millisecond)
	done("12 objects")
	done("again")
	file.Track("check")("")

	total := NewTimer()
	total.Merge("prog.toml", file)
	phases := total.Phases()
	if len(phases) != 2 || phases[0].Name != "prog.toml:declare" || phases[0].Note != "12 objects" {
		t.Fatalf("unexpected phases %+v", phases)
	}
	if phases[0].Dur < time.Millisecond {
		t.Fatalf("declare duration %v too short", phases[0].Dur)
	}
	summary := total.Summary()
	if !strings.Contains(summary, "prog.toml:check") || !strings.Contains(summary, "// 12 objects") || !strings.Contains(summary, "total") {
		t.Fatalf("unexpected summary:\n%s", summary)
	}
	if r := total.Report(); r.TotalMS < 1 || len(r.Phases) != 2 {
		t.Fatalf("unexpected report %+v", r)
	}
}

func TestNilTimer(t *testing.T) {
	var none *Timer
	none.Track("x")("")
	none.Merge("p", NewTimer())
	if r := none.Report(); len(r.Phases) != 0 || r.TotalMS != 0 {
		t.Fatalf("nil timer must report nothing")
	}
	if none.Phases() != nil {
		t.Fatalf("nil timer has phases")
	}
}
