package simpleble

import "time"

// StatusField is one of the three status lines shown to the user.
type StatusField int

const (
	StatusWriting StatusField = iota
	StatusDidWrite
	StatusDidUpdate
)

func (f StatusField) String() string {
	switch f {
	case StatusWriting:
		return "writing"
	case StatusDidWrite:
		return "did-write"
	case StatusDidUpdate:
		return "did-update"
	default:
		return "unknown"
	}
}

// Status replaces the text of one status field. An empty Text clears it.
type Status struct {
	Field   StatusField
	Text    string
	Value   uint8
	Elapsed time.Duration
	Err     error
}

// StatusSink receives status updates from the machine. Publish is called on
// the machine's goroutine and must not block.
type StatusSink interface {
	Publish(s Status)
}

// StatusFunc adapts a function to StatusSink.
type StatusFunc func(s Status)

func (f StatusFunc) Publish(s Status) { f(s) }

// StatusChannel is a StatusSink that sends to a channel. When the channel is
// full the update is dropped; the reader only ever needs the latest text.
type StatusChannel chan Status

func (c StatusChannel) Publish(s Status) {
	select {
	case c <- s:
	default:
	}
}

type discardStatus struct{}

func (discardStatus) Publish(Status) {}
