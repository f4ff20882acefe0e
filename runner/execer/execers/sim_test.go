package execers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldv-klever/klever-sub005/runner/execer"
)

func complete(exitCode int) execer.ProcessStatus {
	return execer.ProcessStatus{State: execer.COMPLETE, ExitCode: exitCode}
}

func start(t *testing.T, ex execer.Execer, argv ...string) execer.Process {
	p, err := ex.Exec(execer.Command{Argv: argv})
	require.NoError(t, err, "%v", argv)
	return p
}

func TestSimExec(t *testing.T) {
	ex := NewSimExecer()
	assert.Equal(t, complete(0), start(t, ex, "complete 0").Wait())
	assert.Equal(t, complete(1), start(t, ex, "complete 1").Wait())
	assert.Equal(t, complete(0), start(t, ex, "sleep 1", "complete 0").Wait())
	assert.Equal(t, complete(0), start(t, ex, "#this is a comment", "complete 0").Wait())
	assert.Equal(t, complete(2), start(t, ex, "complete 2", "complete 5").Wait(), "steps after completion are skipped")

	p := start(t, ex, "pause", "complete 0")
	ex.Resume()
	assert.Equal(t, complete(0), p.Wait())
}

func TestSimExecBadArgs(t *testing.T) {
	ex := NewSimExecer()
	for _, arg := range []string{"complete x", "sleep", "launch rockets"} {
		_, err := ex.Exec(execer.Command{Argv: []string{arg}})
		assert.Error(t, err, arg)
	}
}

func TestSimAbortReleasesPause(t *testing.T) {
	ex := NewSimExecer()
	p := start(t, ex, "pause", "complete 0")
	st := p.Abort()
	assert.Equal(t, execer.FAILED, st.State)
	assert.Equal(t, st, p.Wait())
	assert.Equal(t, st, p.Abort())
}

func TestSimOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	p, err := NewSimExecer().Exec(execer.Command{
		Argv:   []string{"stdout foo\n", "stderr bar\n", "complete 0"},
		Stdout: &stdout,
		Stderr: &stderr,
	})
	require.NoError(t, err)
	assert.Equal(t, complete(0), p.Wait())
	assert.Equal(t, "foo\n", stdout.String())
	assert.Equal(t, "bar\n", stderr.String())
}
