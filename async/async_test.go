package async

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAsyncErrorPendingThenCompleted(t *testing.T) {
	e := newAsyncError()
	ok, err := e.TryGetValue()
	assert.False(t, ok)
	assert.NoError(t, err)

	e.SetValue(errors.New("exit status 1"))
	for i := 0; i < 2; i++ {
		ok, err = e.TryGetValue()
		assert.True(t, ok)
		assert.EqualError(t, err, "exit status 1")
	}
}

func TestAsyncErrorSetTwicePanics(t *testing.T) {
	e := newAsyncError()
	e.SetValue(nil)
	assert.Panics(t, func() { e.SetValue(nil) })
}

func TestMailboxRunsOnlyCompletedCallbacks(t *testing.T) {
	bx := NewMailbox()
	var got []string
	first := bx.NewAsyncError(func(err error) { got = append(got, "first") })
	bx.NewAsyncError(func(err error) { got = append(got, "second") })

	assert.Equal(t, 0, bx.ProcessMessages())
	first.SetValue(nil)
	assert.Equal(t, 1, bx.ProcessMessages())
	assert.Equal(t, []string{"first"}, got)
	assert.Equal(t, 1, bx.Count())
}

func TestRunnerDeliversResultsOnCaller(t *testing.T) {
	r := NewRunner()
	results := map[string]error{}
	release := make(chan struct{})

	r.RunAsync(func() error { return nil }, func(err error) { results["ok"] = err })
	r.RunAsync(func() error { <-release; return errors.New("killed") }, func(err error) { results["killed"] = err })

	deadline := time.Now().Add(5 * time.Second)
	for r.NumRunning() > 1 && time.Now().Before(deadline) {
		r.ProcessMessages()
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 1, r.NumRunning())
	assert.Contains(t, results, "ok")
	assert.NotContains(t, results, "killed")

	close(release)
	for r.NumRunning() > 0 && time.Now().Before(deadline) {
		r.ProcessMessages()
		time.Sleep(time.Millisecond)
	}
	assert.EqualError(t, results["killed"], "killed")
}
