package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Tracer stores events. Emit must be safe for concurrent use; Close flushes
// and releases the sink.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	Close() error
}

// Enabled reports whether t records anything at all.
func Enabled(t Tracer) bool {
	return t != nil && t.Level() > LevelOff
}

func records(t Tracer, scope Scope) bool {
	return t != nil && t.Level().ShouldEmit(scope)
}

type nop struct{}

func (nop) Emit(*Event)  {}
func (nop) Level() Level { return LevelOff }
func (nop) Close() error { return nil }

// Nop drops everything.
var Nop Tracer = nop{}

// Stream writes each event as it arrives.
type Stream struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
	level  Level
	format Format
}

// NewStream returns a stream sink over w. Close closes w when it is an
// io.Closer other than os.Stderr or os.Stdout.
func NewStream(w io.Writer, level Level, format Format) *Stream {
	s := &Stream{w: bufio.NewWriter(w), level: level, format: format}
	if c, ok := w.(io.Closer); ok && w != os.Stderr && w != os.Stdout {
		s.closer = c
	}
	return s
}

func (s *Stream) Emit(ev *Event) {
	if ev == nil || !s.level.ShouldEmit(ev.Scope) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.Seq = nextSeq()
	// a broken trace sink must not fail the check
	_, _ = s.w.Write(FormatEvent(ev, s.format))
	if ev.Kind == KindSpanEnd && ev.Scope <= ScopeFile {
		_ = s.w.Flush()
	}
}

func (s *Stream) Level() Level { return s.level }

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.w.Flush()
	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
		s.closer = nil
	}
	return err
}

// tee copies every event into each sink; each stamps its own sequence.
type tee struct {
	sinks []Tracer
	level Level
}

// Tee fans events out to sinks.
func Tee(level Level, sinks ...Tracer) Tracer {
	return &tee{sinks: sinks, level: level}
}

func (t *tee) Emit(ev *Event) {
	for _, s := range t.sinks {
		cp := *ev
		s.Emit(&cp)
	}
}

func (t *tee) Level() Level { return t.level }

func (t *tee) Close() error {
	var errs []error
	for _, s := range t.sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// Mode picks the sinks New builds.
type Mode uint8

const (
	ModeStream Mode = iota + 1
	ModeRing
	ModeBoth
)

var modeNames = [...]string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

func (m Mode) String() string {
	if int(m) < len(modeNames) && modeNames[m] != "" {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode accepts stream, ring or both.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name != "" && strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config describes the tracer built by New.
type Config struct {
	Level      Level
	Mode       Mode
	Format     Format
	Output     io.Writer // overrides OutputPath
	OutputPath string    // "-" or empty for stderr
	RingSize   int
}

const defaultRingSize = 4096

// New builds the tracer described by cfg; LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = defaultRingSize
	}
	format := cfg.Format
	if format == FormatAuto {
		format = formatForPath(cfg.OutputPath)
	}

	var sinks []Tracer
	if cfg.Mode == ModeStream || cfg.Mode == ModeBoth {
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, NewStream(w, cfg.Level, format))
	}
	if cfg.Mode == ModeRing || cfg.Mode == ModeBoth {
		sinks = append(sinks, NewRing(cfg.RingSize, cfg.Level))
	}
	switch len(sinks) {
	case 0:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	case 1:
		return sinks[0], nil
	}
	return Tee(cfg.Level, sinks...), nil
}

// Ring finds the ring sink behind t, nil when none records.
func Ring(t Tracer) *RingBuffer {
	switch v := t.(type) {
	case *RingBuffer:
		return v
	case *tee:
		for _, s := range v.sinks {
			if r := Ring(s); r != nil {
				return r
			}
		}
	}
	return nil
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}
