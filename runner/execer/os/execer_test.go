package os

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldv-klever/klever-sub005/runner/execer"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestExecCapturesOutputAndExitCode(t *testing.T) {
	var stdout syncBuffer
	e := NewExecer()
	p, err := e.Exec(execer.Command{
		Argv:    []string{"sh", "-c", "echo $KLEVER_TASK_ID; exit 3"},
		EnvVars: map[string]string{"KLEVER_TASK_ID": "T1"},
		Stdout:  &stdout,
	})
	require.NoError(t, err)

	st := p.Wait()
	assert.Equal(t, execer.COMPLETE, st.State)
	assert.Equal(t, 3, st.ExitCode)
	assert.Equal(t, "T1\n", stdout.String())
}

func TestExecRejectsEmptyArgv(t *testing.T) {
	_, err := NewExecer().Exec(execer.Command{})
	assert.Error(t, err)
}

func TestAbortKillsProcessGroup(t *testing.T) {
	e := NewExecerWithAbortTimeout(200 * time.Millisecond)
	p, err := e.Exec(execer.Command{Argv: []string{"sh", "-c", "trap '' TERM; sleep 30 & wait"}})
	require.NoError(t, err)

	done := make(chan execer.ProcessStatus)
	go func() { done <- p.Abort() }()
	select {
	case st := <-done:
		assert.Equal(t, execer.FAILED, st.State)
		assert.Contains(t, st.Error, "Aborted")
	case <-time.After(5 * time.Second):
		t.Fatal("abort did not return")
	}

	st := p.Abort()
	assert.Equal(t, execer.FAILED, st.State, "a second abort returns the recorded result")
}
