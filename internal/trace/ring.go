package trace

import (
	"bufio"
	"io"
	"sync"
)

// RingBuffer keeps the most recent events in memory.
type RingBuffer struct {
	mu    sync.Mutex
	buf   []Event
	total uint64 // events ever stored
	level Level
}

// NewRing returns a ring holding up to size events.
func NewRing(size int, level Level) *RingBuffer {
	if size <= 0 {
		size = defaultRingSize
	}
	return &RingBuffer{buf: make([]Event, size), level: level}
}

func (r *RingBuffer) Emit(ev *Event) {
	if ev == nil || !r.level.ShouldEmit(ev.Scope) {
		return
	}
	r.mu.Lock()
	stored := *ev
	stored.Seq = nextSeq()
	r.buf[r.total%uint64(len(r.buf))] = stored
	r.total++
	r.mu.Unlock()
}

func (r *RingBuffer) Level() Level { return r.level }

func (r *RingBuffer) Close() error { return nil }

// Snapshot copies the stored events, oldest first.
func (r *RingBuffer) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := uint64(len(r.buf))
	n := min(r.total, size)
	out := make([]Event, 0, n)
	for i := r.total - n; i < r.total; i++ {
		out = append(out, r.buf[i%size])
	}
	return out
}

// Dump writes the stored events of session, or all of them when session is
// empty, oldest first.
func (r *RingBuffer) Dump(w io.Writer, format Format, session string) error {
	bw := bufio.NewWriter(w)
	for _, ev := range r.Snapshot() {
		if session != "" && ev.Session != session {
			continue
		}
		if _, err := bw.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
