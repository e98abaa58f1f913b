package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopePass, true},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeBlock, false},
		{LevelDetail, ScopeBlock, true},
		{LevelDetail, ScopeDecl, false},
		{LevelDebug, ScopeDecl, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Fatalf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestParseNames(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth || m.String() != "both" {
		t.Fatalf("ParseMode(both) = %v, %v", m, err)
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if formatForPath("out.jsonl") != FormatNDJSON || formatForPath("out.txt") != FormatText {
		t.Fatalf("format not picked from extension")
	}
}

func TestStartPropagatesParentAndSession(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStream(&buf, LevelDetail, FormatNDJSON)
	ctx := WithSession(WithTracer(context.Background(), tr), "sess-1")

	ctx, file := Start(ctx, ScopeFile, "prog.toml")
	_, block := Start(ctx, ScopeBlock, "block:P")
	Point(ctx, ScopeDecl, "declare", "x") // filtered at detail
	block.WithExtra("objects", "3").End("")
	file.End("ok")
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	type ev struct {
		Kind     string            `json:"kind"`
		SpanID   uint64            `json:"span_id"`
		ParentID uint64            `json:"parent_id"`
		Session  string            `json:"session"`
		Extra    map[string]string `json:"extra"`
	}
	var events []ev
	for _, l := range lines {
		var e ev
		if err := json.Unmarshal([]byte(l), &e); err != nil {
			t.Fatalf("decode %q: %v", l, err)
		}
		if e.Session != "sess-1" {
			t.Fatalf("session lost: %+v", e)
		}
		events = append(events, e)
	}
	if events[1].ParentID != events[0].SpanID {
		t.Fatalf("block span not parented to file span: %+v", events)
	}
	if events[2].Kind != "end" || events[2].Extra["objects"] != "3" {
		t.Fatalf("unexpected block end event: %+v", events[2])
	}
}

func TestRingWrapsAndDumpsSession(t *testing.T) {
	r := NewRing(3, LevelDebug)
	for i, s := range []string{"a", "b", "a", "a"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeDecl, Session: s, Name: string(rune('w' + i))})
	}
	snap := r.Snapshot()
	if len(snap) != 3 || snap[0].Name != "x" || snap[2].Name != "z" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText, "a"); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Fatalf("expected 2 events of session a, got %d:\n%s", got, buf.String())
	}
	if !strings.Contains(buf.String(), "• decl:z") {
		t.Fatalf("text format lost the point glyph:\n%s", buf.String())
	}

	both := Tee(LevelDebug, NewStream(&bytes.Buffer{}, LevelDebug, FormatText), r)
	if Ring(both) != r {
		t.Fatalf("ring not found behind tee")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || Enabled(tr) {
		t.Fatalf("expected disabled tracer, got %v %v", tr, err)
	}
	_, span := Start(WithTracer(context.Background(), tr), ScopeDriver, "check")
	if span.End("") != 0 || span.ID() != 0 {
		t.Fatalf("nop span must not record")
	}
}

func TestNewBothBuildsTee(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := WithTracer(context.Background(), tr)
	_, span := Start(ctx, ScopeFile, "prog.toml")
	span.End("")
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if Ring(tr) == nil || len(Ring(tr).Snapshot()) != 2 {
		t.Fatalf("ring should hold both span events")
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("stream should hold both span events:\n%s", buf.String())
	}
}
