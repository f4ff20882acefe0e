package ingest

import (
	"sync"
	"time"
)

// FakeSource is an in-memory Source for tests. Messages and failures are
// delivered in the order they were sent.
type FakeSource struct {
	events chan fakeEvent

	mu     sync.Mutex
	closed bool
}

type fakeEvent struct {
	body string
	err  error
}

func NewFakeSource() *FakeSource {
	return &FakeSource{events: make(chan fakeEvent, 1024)}
}

// Send queues a message for a later Receive.
func (f *FakeSource) Send(msgs ...string) {
	for _, m := range msgs {
		f.events <- fakeEvent{body: m}
	}
}

// Fail makes a later Receive return err.
func (f *FakeSource) Fail(err error) {
	f.events <- fakeEvent{err: err}
}

func (f *FakeSource) Receive(timeout time.Duration) (string, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case e := <-f.events:
		if e.err != nil {
			return "", false, e.err
		}
		return e.body, true, nil
	case <-timer.C:
		return "", false, nil
	}
}

func (f *FakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *FakeSource) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Factory returns a SourceFactory handing out this FakeSource on every call.
func (f *FakeSource) Factory() SourceFactory {
	return func() (Source, error) { return f, nil }
}
