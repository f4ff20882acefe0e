// Package execers holds Execer implementations that do not start real processes.
package execers

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ldv-klever/klever-sub005/runner/execer"
)

// SimExecer simulates a process by interpreting each element of argv as a step:
//
//	complete <exitcode>  finish with exitcode
//	pause                block until Resume (or Abort)
//	sleep <millis>       sleep, then finish with exit code 0
//	stdout <message>     write message to stdout
//	stderr <message>     write message to stderr
//	#...                 ignored
//
// Steps after the process finished are skipped.
type SimExecer struct {
	resumeCh chan struct{}
}

func NewSimExecer() *SimExecer {
	return &SimExecer{resumeCh: make(chan struct{})}
}

// Resume releases one paused process. It blocks until some process is paused.
func (e *SimExecer) Resume() {
	e.resumeCh <- struct{}{}
}

func (e *SimExecer) Exec(command execer.Command) (execer.Process, error) {
	steps := make([]simStep, 0, len(command.Argv))
	for _, arg := range command.Argv {
		s, err := e.parseArg(arg)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	p := &simProcess{stdout: command.Stdout, stderr: command.Stderr, abortCh: make(chan struct{})}
	p.done = sync.NewCond(&p.mu)
	p.status.State = execer.RUNNING
	go p.run(steps)
	return p, nil
}

type simStep func(p *simProcess, st execer.ProcessStatus) execer.ProcessStatus

func (e *SimExecer) parseArg(arg string) (simStep, error) {
	if strings.HasPrefix(arg, "#") {
		return func(p *simProcess, st execer.ProcessStatus) execer.ProcessStatus { return st }, nil
	}
	opcode, rest := arg, ""
	if i := strings.Index(arg, " "); i >= 0 {
		opcode, rest = arg[:i], arg[i+1:]
	}
	switch opcode {
	case "complete":
		code, err := strconv.Atoi(rest)
		if err != nil {
			return nil, fmt.Errorf("error parsing <n> in complete <n>: %v", err)
		}
		return func(p *simProcess, st execer.ProcessStatus) execer.ProcessStatus {
			return execer.ProcessStatus{State: execer.COMPLETE, ExitCode: code}
		}, nil
	case "sleep":
		millis, err := strconv.Atoi(rest)
		if err != nil {
			return nil, fmt.Errorf("error parsing <n> in sleep <n>: %v", err)
		}
		return func(p *simProcess, st execer.ProcessStatus) execer.ProcessStatus {
			select {
			case <-time.After(time.Duration(millis) * time.Millisecond):
				return execer.ProcessStatus{State: execer.COMPLETE}
			case <-p.abortCh:
				return st
			}
		}, nil
	case "pause":
		return func(p *simProcess, st execer.ProcessStatus) execer.ProcessStatus {
			select {
			case <-e.resumeCh:
			case <-p.abortCh:
			}
			return st
		}, nil
	case "stdout", "stderr":
		return func(p *simProcess, st execer.ProcessStatus) execer.ProcessStatus {
			w := p.stdout
			if opcode == "stderr" {
				w = p.stderr
			}
			if w != nil {
				w.Write([]byte(rest))
			}
			return st
		}, nil
	}
	return nil, fmt.Errorf("can't simulate arg: %v", arg)
}

type simProcess struct {
	mu      sync.Mutex
	done    *sync.Cond
	status  execer.ProcessStatus
	abortCh chan struct{}
	aborted bool

	stdout io.Writer
	stderr io.Writer
}

func (p *simProcess) run(steps []simStep) {
	for _, step := range steps {
		st := p.getStatus()
		if st.State.IsDone() {
			return
		}
		p.setStatus(step(p, st))
	}
}

func (p *simProcess) Wait() execer.ProcessStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	for !p.status.State.IsDone() {
		p.done.Wait()
	}
	return p.status
}

func (p *simProcess) Abort() execer.ProcessStatus {
	p.setStatus(execer.ProcessStatus{State: execer.FAILED, ExitCode: -1, Error: "Aborted"})
	p.mu.Lock()
	if !p.aborted {
		p.aborted = true
		close(p.abortCh)
	}
	p.mu.Unlock()
	return p.Wait()
}

// setStatus is a no-op once the process is done.
func (p *simProcess) setStatus(st execer.ProcessStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status.State.IsDone() {
		return
	}
	p.status = st
	if st.State.IsDone() {
		p.done.Broadcast()
	}
}

func (p *simProcess) getStatus() execer.ProcessStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}
