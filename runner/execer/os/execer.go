package os

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ldv-klever/klever-sub005/runner/execer"
)

// Time given to a process between SIGTERM and SIGKILL.
const DefaultAbortTimeout = 10 * time.Second

type osExecer struct {
	abortTimeout time.Duration
}

// NewExecer returns an Execer that starts real processes, each in its own process group.
func NewExecer() execer.Execer {
	return &osExecer{abortTimeout: DefaultAbortTimeout}
}

func NewExecerWithAbortTimeout(timeout time.Duration) execer.Execer {
	return &osExecer{abortTimeout: timeout}
}

func (e *osExecer) Exec(command execer.Command) (execer.Process, error) {
	if len(command.Argv) == 0 {
		return nil, fmt.Errorf("No command specified.")
	}

	cmd := exec.Command(command.Argv[0], command.Argv[1:]...)
	cmd.Dir = command.Dir

	// Parent environment plus the command's own variables.
	cmd.Env = os.Environ()
	for k, v := range command.EnvVars {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	// Children inherit the pgid so Abort can kill the whole tree.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, stderr := command.Stdout, command.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	// Pipes rather than direct writers: cmd.Wait can hang on writers held open by grandchildren.
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		io.Copy(stdout, stdoutPipe)
	}()
	go func() {
		defer wg.Done()
		io.Copy(stderr, stderrPipe)
	}()

	p := &process{
		cmd:          cmd,
		wg:           &wg,
		abortTimeout: e.abortTimeout,
		tags:         command.LogTags,
		doneCh:       make(chan struct{}),
	}
	log.WithFields(p.fields()).Infof("Started %v", command.Argv)
	go p.reap()
	return p, nil
}
