package analyzer

import "time"

// Stage describes a high-level analyzer phase.
type Stage string

const (
	// StageLoad reads file contents through the loader.
	StageLoad Stage = "load"
	// StageScan runs the syntactic scanners.
	StageScan Stage = "scan"
	// StageResolve links scanned documents into the graph.
	StageResolve Stage = "resolve"
	// StageIndex builds the per-document feature indexes.
	StageIndex Stage = "index"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a document (or for the whole run when URL is empty).
type Event struct {
	URL     string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: load and scan events arrive from worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// FuncSink adapts a function to ProgressSink.
type FuncSink func(Event)

func (f FuncSink) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
