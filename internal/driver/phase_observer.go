package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent is one boundary of a pass over Path. Elapsed and Note are set
// on PhaseEnd only.
type PhaseEvent struct {
	Path    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Note    string
}

// PhaseObserver receives phase events emitted during Check. CheckFiles
// calls it from several goroutines.
type PhaseObserver func(PhaseEvent)

// phase starts a timer phase on res and mirrors both ends to the observer.
func phase(res *Result, opts Options, name string) func(note string) {
	end := res.Timer.Track(name)
	obs := opts.Observer
	if obs == nil {
		return end
	}
	started := time.Now()
	obs(PhaseEvent{Path: res.Path, Name: name, Status: PhaseStart})
	return func(note string) {
		end(note)
		obs(PhaseEvent{Path: res.Path, Name: name, Status: PhaseEnd, Elapsed: time.Since(started), Note: note})
	}
}
