// Package ingest consumes status notifications from the broker on a background
// goroutine and hands the raw messages to the scheduler loop through an
// unbounded queue.
package ingest

import (
	"time"
)

// Source is one connection to the status queue.
type Source interface {
	// Receive waits at most timeout for a message. ok is false with a nil err when
	// the timeout elapsed. Any err is a transport failure and the Source is unusable.
	Receive(timeout time.Duration) (body string, ok bool, err error)
	Close() error
}

// SourceFactory opens a new Source. It is called once per scheduler (re)initialization.
type SourceFactory func() (Source, error)
